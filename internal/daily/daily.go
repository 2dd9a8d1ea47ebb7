// Package daily derives the secret of the daily challenge: every player
// gets the same secret on a given UTC date, one attempt each.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Secret returns the deterministic secret for a date: HMAC(salt, YYYY-MM-DD)
// read two bytes per position, reduced modulo the domain size. Lengths up
// to 16 are supported.
func Secret(date time.Time, salt string, length int, domain []game.Element) game.Sequence {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)

	out := make(game.Sequence, length)
	for i := range out {
		n := binary.BigEndian.Uint16(sum[2*i : 2*i+2])
		out[i] = domain[int(n)%len(domain)]
	}
	return out
}
