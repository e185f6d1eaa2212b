package domain

import (
	"math/rand/v2"
	"strconv"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber returns a candidate order number: two uppercase letters
// followed by five digits in [10000, 99999]. Candidates are drawn uniformly
// and independently; uniqueness is the caller's problem.
func NewOrderNumber() string {
	b := make([]byte, 0, 7)
	b = append(b, letters[rand.IntN(len(letters))])
	b = append(b, letters[rand.IntN(len(letters))])
	b = strconv.AppendInt(b, int64(10000+rand.IntN(90000)), 10)
	return string(b)
}
