package game

import "fmt"

// Score compares guess against secret.
//
// Position counts indices where both agree. The value total is the sum over
// the domain of min(count in secret, count in guess); ValueOnly is that total
// minus Position, so repeated elements in either sequence are counted once
// per matching occurrence.
func ScoreGuess(secret, guess Sequence) (Score, error) {
	if len(secret) != len(guess) {
		return Score{}, fmt.Errorf("%w: secret has %d, guess has %d", ErrLengthMismatch, len(secret), len(guess))
	}
	var inSecret, inGuess [MaxElements]int
	pos := 0
	for i := range guess {
		s, g := secret[i], guess[i]
		if !s.Valid() || !g.Valid() {
			return Score{}, fmt.Errorf("%w at index %d", ErrUnknownElement, i)
		}
		inSecret[s]++
		inGuess[g]++
		if s == g {
			pos++
		}
	}
	total := 0
	for v := 0; v < MaxElements; v++ {
		total += min(inSecret[v], inGuess[v])
	}
	return Score{Position: pos, ValueOnly: total - pos}, nil
}
