package id

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Source yields uniformly distributed 64-bit values.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Uint64() uint64
}

// Charsets.
const (
	Lower        = "abcdefghijklmnopqrstuvwxyz"
	Upper        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits       = "0123456789"
	LowerAlnum   = Lower + Digits
	AlphaNumeric = Lower + Upper + Digits
	hexDigits    = "0123456789abcdef"
)

// Reader adapts a Source into an io.Reader.
func Reader(src Source) io.Reader {
	return &sourceReader{src: src}
}

type sourceReader struct {
	src Source
}

func (r *sourceReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.src.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// UUID generates a UUID v4.
// Returns a string in the format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func UUID(src Source) string {
	u, err := uuid.NewRandomFromReader(Reader(src))
	if err != nil {
		// sourceReader never fails
		panic(fmt.Sprintf("id: uuid: %v", err))
	}
	return u.String()
}

// Hex generates a random lowercase hex string of length n.
func Hex(src Source, n int) string {
	return FromCharset(src, hexDigits, n)
}

// Alphanumeric generates a random string of letters and digits.
func Alphanumeric(src Source, n int) string {
	return FromCharset(src, AlphaNumeric, n)
}

// FromCharset generates a random string of n bytes drawn from charset.
// It returns "" when n is not positive or charset is empty.
func FromCharset(src Source, charset string, n int) string {
	if n <= 0 || charset == "" {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[src.Uint64()%uint64(len(charset))]
	}
	return string(b)
}

// --- ULID ---

// ulidEncoding uses Crockford's Base32 (excludes I, L, O, U to avoid ambiguity)
const ulidEncoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULID generates a ULID whose timestamp component encodes t.
// Format: TTTTTTTTTTRRRRRRRRRRRRRRRR (10 chars timestamp + 16 chars randomness)
func ULID(src Source, t time.Time) string {
	ms := t.UnixMilli()
	ulid := make([]byte, 26)

	// 48-bit timestamp, 5 bits per character, most significant first
	for i := 9; i >= 0; i-- {
		ulid[i] = ulidEncoding[ms&0x1F]
		ms >>= 5
	}

	// 80 bits of randomness
	hi, lo := src.Uint64()&0xFFFF, src.Uint64()
	for i := 25; i >= 10; i-- {
		ulid[i] = ulidEncoding[lo&0x1F]
		lo = lo>>5 | (hi&0x1F)<<59
		hi >>= 5
	}

	return string(ulid)
}

// IsValidULID checks if a string is a valid ULID.
func IsValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	// The first character carries only 3 bits of a 48-bit timestamp
	if decodeULIDChar(s[0]) > 7 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if decodeULIDChar(s[i]) < 0 {
			return false
		}
	}
	return true
}

// ULIDTime extracts the timestamp from a ULID.
func ULIDTime(ulid string) (time.Time, error) {
	if !IsValidULID(ulid) {
		return time.Time{}, fmt.Errorf("invalid ULID: %s", ulid)
	}

	var ms int64
	for i := 0; i < 10; i++ {
		ms = (ms << 5) | int64(decodeULIDChar(ulid[i]))
	}

	return time.UnixMilli(ms), nil
}

// decodeULIDChar decodes a single ULID character to its value.
func decodeULIDChar(c byte) int {
	for i := 0; i < len(ulidEncoding); i++ {
		if ulidEncoding[i] == c {
			return i
		}
	}
	return -1
}
