// Package objectid implements the canonical identifier format exchanged with
// the stores: 12 bytes, rendered as 24 lowercase hex characters.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"
)

// ID is a 12-byte identifier. The first four bytes carry the creation time,
// the remaining eight are random.
type ID [12]byte

// Nil is the zero-valued ID.
var Nil ID

// ErrInvalidHex indicates a string that is not a valid 24-hex-character id.
var ErrInvalidHex = errors.New("objectid: invalid hex representation")

// New generates a fresh ID. It never returns an error: a failure of the
// system randomness source panics, matching crypto/rand semantics.
func New() ID {
	var id ID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(id[4:12]); err != nil {
		panic("objectid: rand.Read: " + err.Error())
	}
	return id
}

// FromHex parses the canonical 24-hex-character representation.
func FromHex(s string) (ID, error) {
	if len(s) != 24 {
		return Nil, ErrInvalidHex
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Nil, ErrInvalidHex
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// Hex returns the canonical 24-hex-character representation.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id == Nil
}

// String implements fmt.Stringer.
func (id ID) String() string { return id.Hex() }
