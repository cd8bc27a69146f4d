package util

import (
	"math/rand"
)

const randAlphaChars = "abcdefghijklmnopqrstuvwxyz"

// RandAlphaString returns a random string of lowercase letters of length n.
func RandAlphaString(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = randAlphaChars[rand.Intn(len(randAlphaChars))]
	}
	return string(buf)
}
