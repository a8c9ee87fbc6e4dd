package game

import "crypto/rand"

// joinCodeAlphabet excludes characters that read ambiguously (0, O, 1, I, l).
const joinCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const joinCodeLength = 6

// GenerateJoinCode returns a fresh 6-character invite code. The code is a
// shared secret, so it comes from crypto/rand rather than a seeded PRNG.
func GenerateJoinCode() string {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, joinCodeLength)
	for i, b := range buf {
		out[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(out)
}
