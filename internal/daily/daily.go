// Package daily picks a deterministic "sentence of the day" so every class
// that opens the tool on the same date sees the same warm-up sentence.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns HMAC(salt, scope|YYYY-MM-DD) % n. scope separates
// independent pools (one per tier) so they do not move in lockstep.
func Index(date time.Time, salt, scope string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(scope + "|" + DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
