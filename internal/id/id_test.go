package id

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"
	"time"
)

func newSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// --- UUID Tests ---

func TestUUID_Format(t *testing.T) {
	src := newSource(1)
	// UUID v4 format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
	uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	for i := 0; i < 100; i++ {
		if id := UUID(src); !uuidRegex.MatchString(id) {
			t.Fatalf("UUID() = %q, does not match UUID v4 format", id)
		}
	}
}

func TestUUID_SeededReproducible(t *testing.T) {
	a := UUID(newSource(42))
	b := UUID(newSource(42))
	c := UUID(newSource(43))
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
	if a == c {
		t.Errorf("different seeds both produced %q", a)
	}
}

func TestUUID_Uniqueness(t *testing.T) {
	src := newSource(7)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := UUID(src)
		if seen[id] {
			t.Fatalf("duplicate UUID: %s", id)
		}
		seen[id] = true
	}
}

// --- Charset Tests ---

func TestHex(t *testing.T) {
	id := Hex(newSource(1), 16)
	if len(id) != 16 {
		t.Fatalf("Hex length = %d, want 16", len(id))
	}
	if strings.Trim(id, "0123456789abcdef") != "" {
		t.Errorf("Hex() = %q contains non-hex characters", id)
	}
}

func TestAlphanumeric_Length(t *testing.T) {
	src := newSource(1)
	for _, n := range []int{1, 5, 24, 64} {
		if got := Alphanumeric(src, n); len(got) != n {
			t.Errorf("Alphanumeric(%d) length = %d", n, len(got))
		}
	}
}

func TestAlphanumeric_NonPositiveLength(t *testing.T) {
	src := newSource(1)
	if got := Alphanumeric(src, 0); got != "" {
		t.Errorf("Alphanumeric(0) = %q, want empty", got)
	}
	if got := Alphanumeric(src, -3); got != "" {
		t.Errorf("Alphanumeric(-3) = %q, want empty", got)
	}
}

func TestFromCharset(t *testing.T) {
	src := newSource(3)
	got := FromCharset(src, "ab", 200)
	if strings.Trim(got, "ab") != "" {
		t.Errorf("FromCharset produced foreign characters: %q", got)
	}
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("FromCharset did not use the whole charset: %q", got)
	}
	if FromCharset(src, "", 5) != "" {
		t.Error("empty charset should produce empty string")
	}
}

func TestAlphanumeric_Distribution(t *testing.T) {
	src := newSource(9)
	counts := make(map[byte]int)
	s := Alphanumeric(src, 62*200)
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	if len(counts) != len(AlphaNumeric) {
		t.Errorf("saw %d distinct characters, want %d", len(counts), len(AlphaNumeric))
	}
}

// --- ULID Tests ---

func TestULID_Format(t *testing.T) {
	src := newSource(1)
	id := ULID(src, time.Now())
	if len(id) != 26 {
		t.Fatalf("ULID length = %d, want 26", len(id))
	}
	if !IsValidULID(id) {
		t.Errorf("ULID() = %q is not valid", id)
	}
	for _, c := range "ILOU" {
		if strings.ContainsRune(id, c) {
			t.Errorf("ULID() = %q contains excluded character %c", id, c)
		}
	}
}

func TestULID_TimeRoundTrip(t *testing.T) {
	src := newSource(1)
	ts := time.Date(2024, 3, 15, 10, 30, 0, 123_000_000, time.UTC)
	got, err := ULIDTime(ULID(src, ts))
	if err != nil {
		t.Fatalf("ULIDTime error: %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("ULIDTime = %v, want %v", got, ts)
	}
}

func TestULID_Sortable(t *testing.T) {
	src := newSource(1)
	base := time.UnixMilli(1_700_000_000_000)
	prev := ULID(src, base)
	for i := 1; i < 50; i++ {
		next := ULID(src, base.Add(time.Duration(i)*time.Millisecond))
		if next[:10] <= prev[:10] {
			t.Fatalf("timestamp prefix not increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestULID_ZeroTimestamp(t *testing.T) {
	id := ULID(newSource(1), time.UnixMilli(0))
	if id[:10] != "0000000000" {
		t.Errorf("zero timestamp prefix = %q", id[:10])
	}
}

func TestIsValidULID_InvalidCases(t *testing.T) {
	tests := []struct {
		name string
		s    string
	}{
		{"empty", ""},
		{"too short", "01ARZ3NDEKTSV4RRFFQ69G5FA"},
		{"too long", "01ARZ3NDEKTSV4RRFFQ69G5FAVX"},
		{"lowercase", "01arz3ndektsv4rrffq69g5fav"},
		{"excluded I", "01ARZ3NDEKTSV4RRFFQ69G5FAI"},
		{"timestamp overflow", "81ARZ3NDEKTSV4RRFFQ69G5FAV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsValidULID(tt.s) {
				t.Errorf("IsValidULID(%q) = true, want false", tt.s)
			}
		})
	}

	if !IsValidULID("01ARZ3NDEKTSV4RRFFQ69G5FAV") {
		t.Error("canonical example rejected")
	}
	if _, err := ULIDTime("bogus"); err == nil {
		t.Error("ULIDTime accepted an invalid ULID")
	}
}

func BenchmarkUUID(b *testing.B) {
	src := newSource(1)
	for i := 0; i < b.N; i++ {
		_ = UUID(src)
	}
}

func BenchmarkULID(b *testing.B) {
	src := newSource(1)
	now := time.Now()
	for i := 0; i < b.N; i++ {
		_ = ULID(src, now)
	}
}
