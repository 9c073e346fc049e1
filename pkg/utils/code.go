package utils

import (
	"crypto/rand"
	"math/big"
)

// join codes avoid 0/O and 1/I so they survive being read aloud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// JoinCodeLength is the length of generated private league join codes.
const JoinCodeLength = 6

// NewJoinCode generates a random join code. The keyspace is small, so
// callers must check the result against already issued codes.
func NewJoinCode() string {
	buf := make([]byte, JoinCodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
