package placeholder

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// Date and time
// =============================================================================

const (
	defaultDateLayout     = "yyyy-MM-dd"
	defaultTimeLayout     = "HH:mm:ss"
	defaultDateTimeLayout = "yyyy-MM-dd HH:mm:ss"
)

func genDate(c *Call) (any, error) {
	return formatTime(randomTime(c), c.Arg(0), defaultDateLayout), nil
}

func genTime(c *Call) (any, error) {
	return formatTime(randomTime(c), c.Arg(0), defaultTimeLayout), nil
}

func genDateTime(c *Call) (any, error) {
	return formatTime(randomTime(c), c.Arg(0), defaultDateTimeLayout), nil
}

func genNow(c *Call) (any, error) {
	return formatTime(c.Now, c.Arg(0), defaultDateTimeLayout), nil
}

// randomTime returns a second-precision time between the Unix epoch and
// the call's clock, in the clock's location.
func randomTime(c *Call) time.Time {
	end := c.Now.Unix()
	if end < 0 {
		end = 0
	}
	return time.Unix(c.Rand.Between(0, end), 0).In(c.Now.Location())
}

// formatTime renders t with layout, or def when layout is empty.
//
// The names unix, unixmilli and rfc3339 select those encodings; unix and
// unixmilli produce int64 values. A layout containing a Go reference date
// component (2006, 15:04, Jan, Mon) is passed to time.Format. Anything else
// is a pattern of yyyy, yy, MMMM, MMM, MM, M, dd, d, HH, H, hh, h, mm, m,
// ss, s, SSS, a, EEEE, EEE and Z tokens; text in single quotes is literal.
func formatTime(t time.Time, layout, def string) any {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		layout = def
	}
	switch strings.ToLower(layout) {
	case "unix":
		return t.Unix()
	case "unixmilli":
		return t.UnixMilli()
	case "rfc3339", "iso":
		return t.Format(time.RFC3339)
	}
	if isGoLayout(layout) {
		return t.Format(layout)
	}
	return formatPattern(t, layout)
}

func isGoLayout(layout string) bool {
	for _, ref := range []string{"2006", "15:04", "Jan", "Mon", "01/02"} {
		if strings.Contains(layout, ref) {
			return true
		}
	}
	return false
}

func formatPattern(t time.Time, pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		ch := pattern[i]
		if ch == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			if end == 0 {
				b.WriteByte('\'')
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}

		n := 1
		for i+n < len(pattern) && pattern[i+n] == ch {
			n++
		}
		b.WriteString(formatToken(t, ch, n, pattern[i:i+n]))
		i += n
	}
	return b.String()
}

// formatToken renders a run of n identical pattern letters. Unknown runs
// are copied verbatim.
func formatToken(t time.Time, ch byte, n int, raw string) string {
	switch ch {
	case 'y':
		if n == 2 {
			return pad(t.Year()%100, 2)
		}
		return pad(t.Year(), n)
	case 'M':
		switch {
		case n >= 4:
			return t.Month().String()
		case n == 3:
			return t.Month().String()[:3]
		}
		return pad(int(t.Month()), n)
	case 'd':
		return pad(t.Day(), n)
	case 'H':
		return pad(t.Hour(), n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n)
	case 'm':
		return pad(t.Minute(), n)
	case 's':
		return pad(t.Second(), n)
	case 'S':
		ms := t.Nanosecond() / int(time.Millisecond)
		s := pad(ms, 3)
		if n < 3 {
			return s[:n]
		}
		return s + strings.Repeat("0", n-3)
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'E':
		if n >= 4 {
			return t.Weekday().String()
		}
		return t.Weekday().String()[:3]
	case 'Z':
		return t.Format("-0700")
	}
	return raw
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
