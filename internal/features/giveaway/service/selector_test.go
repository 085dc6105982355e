package service

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
)

func participants(n int) []models.Participant {
	out := make([]models.Participant, n)
	for i := range out {
		out[i] = models.Participant{ID: fmt.Sprintf("u%d", i)}
	}
	return out
}

func TestSelectSizeAndDistinctness(t *testing.T) {
	s := NewSelector(nil)
	for _, tc := range []struct{ n, k int }{{0, 1}, {1, 1}, {3, 2}, {3, 3}, {3, 5}, {10, 4}, {50, 1}} {
		t.Run(fmt.Sprintf("n=%d,k=%d", tc.n, tc.k), func(t *testing.T) {
			eligible := participants(tc.n)
			got, err := s.Select(eligible, tc.k)
			require.NoError(t, err)
			assert.Len(t, got, int(math.Min(float64(tc.n), float64(tc.k))))

			seen := map[string]bool{}
			for _, p := range got {
				assert.False(t, seen[p.ID], "duplicate winner %s", p.ID)
				seen[p.ID] = true
				assert.Contains(t, eligible, p)
			}
		})
	}
}

func TestSelectEmpty(t *testing.T) {
	got, err := NewSelector(nil).Select(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectAllWhenFewerThanCount(t *testing.T) {
	eligible := participants(3)
	got, err := NewSelector(nil).Select(eligible, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, eligible, got)
}

func TestSelectCollapsesDuplicates(t *testing.T) {
	eligible := []models.Participant{{ID: "a"}, {ID: "a"}, {ID: "b"}}
	got, err := NewSelector(nil).Select(eligible, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Participant{{ID: "a"}, {ID: "b"}}, got)
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	eligible := participants(10)
	before := append([]models.Participant(nil), eligible...)
	_, err := NewSelector(nil).Select(eligible, 3)
	require.NoError(t, err)
	assert.Equal(t, before, eligible)
}

func TestSelectRandomSourceFailure(t *testing.T) {
	s := NewSelector(func(int) (int, error) { return 0, errors.New("no entropy") })
	_, err := s.Select(participants(5), 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRandomSource, apperrors.CodeOf(err))
}

// Each member of E should be picked with probability k/|E|.
func TestSelectIsUniform(t *testing.T) {
	const (
		n      = 6
		k      = 2
		trials = 30000
	)
	s := NewSelector(nil)
	eligible := participants(n)
	counts := map[string]int{}
	pairs := map[string]int{}

	for i := 0; i < trials; i++ {
		got, err := s.Select(eligible, k)
		require.NoError(t, err)
		for _, p := range got {
			counts[p.ID]++
		}
		a, b := got[0].ID, got[1].ID
		if a > b {
			a, b = b, a
		}
		pairs[a+"|"+b]++
	}

	expected := float64(trials) * k / n
	for _, p := range eligible {
		assert.InEpsilon(t, expected, float64(counts[p.ID]), 0.05, "member %s picked %d times", p.ID, counts[p.ID])
	}

	// All C(6,2)=15 subsets should appear with roughly equal frequency.
	require.Len(t, pairs, 15)
	expectedPair := float64(trials) / 15
	for pair, c := range pairs {
		assert.InEpsilon(t, expectedPair, float64(c), 0.1, "subset %s drawn %d times", pair, c)
	}
}
