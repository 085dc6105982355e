package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Source returns a uniformly distributed integer in [0, n).
type Source func(n int) (int, error)

// Crypto is a Source backed by crypto/rand.
func Crypto(n int) (int, error) {
	jBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(jBig.Int64()), nil
}

// Sample moves k uniformly chosen elements to the front of slice using a
// partial Fisher–Yates pass and returns that prefix. Every k-subset is
// equally likely. The slice is permuted in place; k is clamped to len(slice).
func Sample[T any](slice []T, k int, src Source) ([]T, error) {
	n := len(slice)
	if k > n {
		k = n
	}
	if k < 0 {
		k = 0
	}
	for i := 0; i < k && i < n-1; i++ {
		r, err := src(n - i)
		if err != nil {
			return nil, err
		}
		j := i + r
		slice[i], slice[j] = slice[j], slice[i]
	}
	return slice[:k], nil
}
