package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1h2m10s", 3732},
		{"30m", 1800},
		{"45s", 45},
		{"2h10s", 7210},
		{"1h30m", 5400},
		{"0h0m0s", 0},
		{"", 0},
		{"not-a-duration", 0},
		{"10", 0},
		{"m", 0},
		// Out-of-order components stop the match at the first valid prefix.
		{"5m1h", 300},
		{"90s", 90},
		{"99999999999999999999h", 0},
		// Components that fit an int but overflow once scaled to seconds.
		{"1147797409030816545h", 0},
		{"3000000000000000h", 0},
		{"1h9223372036854775807s", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.in))
		})
	}
}
