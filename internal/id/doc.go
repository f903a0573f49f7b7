// Package id provides identifier generators for id-like placeholders
// (@GUID, @ULID, @ID).
//
// Every generator draws from a caller-supplied Source, normally the
// per-call random number generator, so seeded runs reproduce the same
// identifiers:
//
//   - UUID: RFC 4122 version 4 UUIDs built with github.com/google/uuid
//   - ULID: 26-character Crockford base32 identifiers whose first ten
//     characters encode a millisecond timestamp
//   - Hex, Alphanumeric, FromCharset: fixed-length random strings
//
// The output is fake data, not secure randomness.
package id
