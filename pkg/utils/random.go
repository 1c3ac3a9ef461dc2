package utils

import (
	"math/rand"
	"time"
)

const aliasCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateAlias generates a random lowercase slug of fixed length, used when
// a route is created without an explicit alias.
func GenerateAlias(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = aliasCharset[seededRand.Intn(len(aliasCharset))]
	}
	return string(b)
}
