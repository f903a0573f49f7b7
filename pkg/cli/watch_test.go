package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockgen/internal/cliconfig"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRenderer_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmpl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v": "one"}`), 0o644))

	cfg := cliconfig.NewDefault()
	cfg.Indent = 0
	out, errOut := &syncBuffer{}, &syncBuffer{}
	a := &app{cfg: cfg, out: out, errOut: errOut}
	require.NoError(t, a.init(&globalFlags{}))
	r, err := newRenderer(a, &generateFlags{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.watch(ctx, path, "") }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `{"v":"one"}`)
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"v": "two"}`), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `{"v":"two"}`)
	}, 5*time.Second, 20*time.Millisecond)

	// A broken template is reported and watching goes on.
	require.NoError(t, os.WriteFile(path, []byte(`{"v": "@NOPE"}`), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "unknown placeholder @NOPE")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRenderer_Batch(t *testing.T) {
	root := t.TempDir()
	for name, body := range map[string]string{
		"a.json":        `{"n|+1": 1}`,
		"deep/b.yaml":   "name: b\n",
		"deep/skip.txt": "x",
	} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	cfg := cliconfig.NewDefault()
	cfg.Format = "yaml"
	a := &app{cfg: cfg, out: io.Discard, errOut: io.Discard}
	require.NoError(t, a.init(&globalFlags{}))
	r, err := newRenderer(a, &generateFlags{})
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, r.batch(filepath.Join(root, "**", "*.{json,yaml}"), outDir))

	data, err := os.ReadFile(filepath.Join(outDir, "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "n: 1\n", string(data))

	data, err = os.ReadFile(filepath.Join(outDir, "deep", "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "name: b\n", string(data))

	_, err = os.Stat(filepath.Join(outDir, "deep", "skip.yaml"))
	assert.True(t, os.IsNotExist(err))
}
