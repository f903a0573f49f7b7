package template

import (
	"strconv"
	"strings"

	"github.com/getmockd/mockgen/internal/rng"
	"github.com/getmockd/mockgen/pkg/counter"
	"github.com/getmockd/mockgen/pkg/locale"
)

// RenderContext carries the state of one top-level render.
type RenderContext struct {
	// Locale selects the data packs placeholders draw from.
	Locale locale.Locale

	// Counters holds increment state for the call. Render opens and closes
	// its own store when nil.
	Counters *counter.Store

	// Rand is the random source. Nil uses the global source.
	Rand *rng.Rand
}

// frame is the position of one value inside the template being rendered.
type frame struct {
	// path is the display path with array indices, e.g. users[2].id.
	path string
	// key is the counter instance key, the path with indices erased, e.g.
	// users[].id. Names holding separators are quoted, so "a.b" and a.b
	// never share a key.
	key   string
	depth int
}

func (f frame) child(name string) frame {
	seg := segment(name)
	if strings.HasPrefix(seg, "[") || f.path == "" {
		return frame{path: f.path + seg, key: f.key + seg, depth: f.depth + 1}
	}
	return frame{path: f.path + "." + seg, key: f.key + "." + seg, depth: f.depth + 1}
}

// segment renders a property name as a path segment: bare when it is
// unambiguous, ["..."] otherwise.
func segment(name string) string {
	if name != "" && !strings.ContainsAny(name, `.[]"\`) {
		return name
	}
	return "[" + strconv.Quote(name) + "]"
}

func (f frame) index(i int) frame {
	return frame{path: f.path + "[" + strconv.Itoa(i) + "]", key: f.key + "[]", depth: f.depth + 1}
}
