package utils

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// Order numbers are the short, human-facing identifier printed on receipts:
// brand prefix, trailing digits of the current epoch milliseconds, and a
// short random suffix. Uniqueness is probabilistic; callers must retry on a
// duplicate-key insert.
const (
	orderNumberPrefix    = "JJ"
	orderNumberTimeWidth = 8
	orderNumberSuffixLen = 4
)

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber returns a fresh candidate order number.
func GenerateOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) > orderNumberTimeWidth {
		ts = ts[len(ts)-orderNumberTimeWidth:]
	}

	suffix := make([]byte, orderNumberSuffixLen)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}

	return orderNumberPrefix + ts + string(suffix)
}
