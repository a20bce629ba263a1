package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// IDLength is the length of a hex-encoded object identifier.
const IDLength = 24

var (
	idProcessUnique = newProcessUnique()
	idCounter       = newCounterSeed()
)

// NewID returns a 12-byte object identifier encoded as 24 lowercase hex
// characters: 4 bytes of unix seconds, 5 process-unique random bytes and a
// 3 byte counter.
func NewID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	copy(b[4:9], idProcessUnique[:])
	c := atomic.AddUint32(&idCounter, 1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return hex.EncodeToString(b[:])
}

// ValidID reports whether s is a 24 character hex object identifier.
func ValidID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func newProcessUnique() [5]byte {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("domain: cannot read random bytes: " + err.Error())
	}
	return b
}

func newCounterSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("domain: cannot read random bytes: " + err.Error())
	}
	return binary.BigEndian.Uint32(b[:]) & 0x00ffffff
}
