// Package objectid generates locally-unique, roughly time-ordered message
// identifiers. The layout matches a Mongo-style object id: a 4-byte unix
// timestamp prefix followed by 8 random bytes, hex encoded to 24 characters.
// Ids created later collate after ids created earlier, and the 64 random bits
// make collisions within a session negligible.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

const (
	rawLen     = 12
	EncodedLen = 24
)

// New returns a fresh identifier.
func New() string {
	var b [rawLen]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand.Read never fails on supported platforms
		panic("objectid: rand.Read: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// Timestamp extracts the creation time encoded in an id. The second return
// value is false if the id is not one of ours.
func Timestamp(id string) (time.Time, bool) {
	if len(id) != EncodedLen {
		return time.Time{}, false
	}
	raw, err := hex.DecodeString(id)
	if err != nil {
		return time.Time{}, false
	}
	secs := binary.BigEndian.Uint32(raw[:4])
	return time.Unix(int64(secs), 0), true
}
