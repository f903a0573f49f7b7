package rule

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		key      string
		wantName string
		want     Rule
	}{
		{"name", "name", None{}},
		{"tags|2-5", "tags", IntRange(2, 5)},
		{"id|+1", "id", Increment{Step: 1}},
		{"id|+10", "id", Increment{Step: 10}},
		{"items|3", "items", Count{Min: 3, Max: 3}},
		{"items|0", "items", Count{Min: 0, Max: 0}},
		{"score|1-100.2", "score", Range{Min: 1, Max: 100, Decimals: &Decimals{Min: 2, Max: 2}}},
		{"price|1-10.1-3", "price", Range{Min: 1, Max: 10, Decimals: &Decimals{Min: 1, Max: 3}}},
		{"temp|-10-40", "temp", IntRange(-10, 40)},
		{"big|9223372036854775000-9223372036854775807", "big", IntRange(9223372036854775000, math.MaxInt64)},
		{"low|-9223372036854775808-0", "low", IntRange(math.MinInt64, 0)},
		{"ratio|0.5-1.5", "ratio", Range{Min: 0.5, Max: 1, Decimals: &Decimals{Min: 5, Max: 5}}},
		{"ratio|-0.5-1.5", "ratio", Range{Min: -0.5, Max: 1.5}},
		{"w|1.25-2.5.2", "w", Range{Min: 1.25, Max: 2.5, Decimals: &Decimals{Min: 2, Max: 2}}},
		{`a\|b|2`, "a|b", Count{Min: 2, Max: 2}},
		{`a\\|2`, `a\`, Count{Min: 2, Max: 2}},
		{`a\|b`, "a|b", None{}},
		{`path\to`, `path\to`, None{}},
		{"x|1|2", "x", nil}, // second pipe belongs to the suffix and is malformed
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			name, r, err := Parse(tt.key)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if tt.want == nil {
				if err == nil {
					t.Fatalf("expected error, got rule %#v", r)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(r, tt.want) {
				t.Errorf("rule = %#v, want %#v", r, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	suffixes := []string{
		"",
		"abc",
		"+",
		"-1",
		"+-1",
		"1-",
		"-5",
		"5-1",
		"1-10.5-2",
		"1-10.11",
		"1.5",
		" 1-2",
		"1 - 2",
		"99999999999999999999",
	}

	for _, s := range suffixes {
		t.Run(s, func(t *testing.T) {
			_, _, err := Parse("key|" + s)
			var mre *MalformedRuleError
			if !errors.As(err, &mre) {
				t.Fatalf("Parse(%q) error = %v, want *MalformedRuleError", s, err)
			}
			if mre.Suffix != s {
				t.Errorf("Suffix = %q, want %q", mre.Suffix, s)
			}
		})
	}
}

func TestParseBoundOutOfRange(t *testing.T) {
	suffixes := []string{
		"0-99999999999999999999",
		"0-9223372036854775808",
		"-9223372036854775809-0",
	}
	for _, s := range suffixes {
		t.Run(s, func(t *testing.T) {
			_, _, err := Parse("n|" + s)
			var mre *MalformedRuleError
			if !errors.As(err, &mre) {
				t.Fatalf("Parse(%q) error = %v, want *MalformedRuleError", s, err)
			}
			if mre.Reason != "bound out of range" {
				t.Errorf("Reason = %q, want %q", mre.Reason, "bound out of range")
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		name, r, err := Parse("score|1-100.2")
		if err != nil || name != "score" || r.String() != "1-100.2" {
			t.Fatalf("iteration %d: got (%q, %v, %v)", i, name, r, err)
		}
	}
}

func TestRuleString(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{None{}, ""},
		{Count{Min: 3, Max: 3}, "3"},
		{Count{Min: 2, Max: 5}, "2-5"},
		{IntRange(1, 100), "1-100"},
		{IntRange(9223372036854775000, math.MaxInt64), "9223372036854775000-9223372036854775807"},
		{Range{Min: -0.5, Max: 1.5}, "-0.5-1.5"},
		{Range{Min: 1, Max: 10, Decimals: &Decimals{Min: 1, Max: 3}}, "1-10.1-3"},
		{Increment{Step: 2}, "+2"},
		{Probability{Percent: 25}, "25%"},
		{Repeat{Min: 1, Max: 4}, "1-4"},
	}
	for _, tt := range tests {
		if got := tt.rule.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.rule, got, tt.want)
		}
	}
}

func TestSplitKey(t *testing.T) {
	name, suffix, ok := SplitKey("a|b|c")
	if name != "a" || suffix != "b|c" || !ok {
		t.Errorf("SplitKey = (%q, %q, %v)", name, suffix, ok)
	}

	name, suffix, ok = SplitKey("plain")
	if name != "plain" || suffix != "" || ok {
		t.Errorf("SplitKey = (%q, %q, %v)", name, suffix, ok)
	}

	name, suffix, ok = SplitKey("empty|")
	if name != "empty" || suffix != "" || !ok {
		t.Errorf("SplitKey = (%q, %q, %v)", name, suffix, ok)
	}
}
