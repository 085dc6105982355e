// Package storetest holds the behaviour every GiveawayStore implementation
// must satisfy.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
)

// Run executes the contract against stores produced by newStore. Each subtest
// gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) repository.GiveawayStore) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	newGiveaway := func(id string, offset time.Duration) *models.Giveaway {
		return &models.Giveaway{
			ID:          id,
			Prize:       "Headset " + id,
			WinnerCount: 2,
			Host:        models.Participant{ID: "host", Username: "host"},
			ChannelID:   "chan",
			Duration:    "1h",
			Status:      models.GiveawayStatusActive,
			CreatedAt:   base.Add(offset),
			EndsAt:      base.Add(offset + time.Hour),
		}
	}

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))

		g, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, "Headset M1", g.Prize)
		assert.Equal(t, models.GiveawayStatusActive, g.Status)
		assert.Equal(t, 2, g.WinnerCount)
		assert.True(t, g.CreatedAt.Equal(base))
	})

	t.Run("create duplicate", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))
		assert.ErrorIs(t, s.Create(ctx, newGiveaway("M1", 0)), repository.ErrAlreadyExists)

		require.NoError(t, s.MoveToEnded(ctx, "M1", nil))
		assert.ErrorIs(t, s.Create(ctx, newGiveaway("M1", 0)), repository.ErrAlreadyExists)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrGiveawayNotFound)
	})

	t.Run("returned copies do not alias", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))

		g, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		g.Prize = "changed"
		g.Status = models.GiveawayStatusEnded

		again, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, "Headset M1", again.Prize)
		assert.Equal(t, models.GiveawayStatusActive, again.Status)
	})

	t.Run("pause toggles within active partition", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))

		require.NoError(t, s.UpdatePaused(ctx, "M1", true))
		g, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, models.GiveawayStatusPaused, g.Status)

		active, err := s.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)

		require.NoError(t, s.UpdatePaused(ctx, "M1", false))
		g, err = s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, models.GiveawayStatusActive, g.Status)

		assert.ErrorIs(t, s.UpdatePaused(ctx, "nope", true), repository.ErrNotActive)
	})

	t.Run("move to ended", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))
		require.NoError(t, s.UpdatePaused(ctx, "M1", true))

		require.NoError(t, s.MoveToEnded(ctx, "M1", nil))
		assert.ErrorIs(t, s.MoveToEnded(ctx, "M1", nil), repository.ErrNotActive)
		assert.ErrorIs(t, s.UpdatePaused(ctx, "M1", false), repository.ErrNotActive)

		g, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, models.GiveawayStatusEnded, g.Status)

		active, err := s.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)

		ended, err := s.ListEnded(ctx)
		require.NoError(t, err)
		require.Len(t, ended, 1)
		assert.Equal(t, "M1", ended[0].ID)

		assert.ErrorIs(t, s.MoveToEnded(ctx, "nope", nil), repository.ErrNotActive)
	})

	t.Run("move to ended records winners", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))

		winners := []models.Participant{{ID: "a"}, {ID: "b"}}
		require.NoError(t, s.MoveToEnded(ctx, "M1", winners))
		winners[0].ID = "mutated"

		g, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, models.GiveawayStatusEnded, g.Status)
		assert.Equal(t, []models.Participant{{ID: "a"}, {ID: "b"}}, g.Winners)

		// A rejected move leaves the stored winners alone.
		assert.ErrorIs(t, s.MoveToEnded(ctx, "M1", []models.Participant{{ID: "c"}}), repository.ErrNotActive)
		g, err = s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, []models.Participant{{ID: "a"}, {ID: "b"}}, g.Winners)
	})

	t.Run("set winners replaces", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))
		assert.ErrorIs(t, s.SetWinners(ctx, "M1", nil), repository.ErrNotEnded)

		require.NoError(t, s.MoveToEnded(ctx, "M1", nil))
		require.NoError(t, s.SetWinners(ctx, "M1", []models.Participant{{ID: "a"}, {ID: "b"}}))
		require.NoError(t, s.SetWinners(ctx, "M1", []models.Participant{{ID: "c"}}))

		g, err := s.Get(ctx, "M1")
		require.NoError(t, err)
		assert.Equal(t, []models.Participant{{ID: "c"}}, g.Winners)
	})

	t.Run("snapshots are stable and ordered", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("B", 2*time.Minute)))
		require.NoError(t, s.Create(ctx, newGiveaway("A", time.Minute)))
		require.NoError(t, s.Create(ctx, newGiveaway("C", 3*time.Minute)))

		active, err := s.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 3)
		assert.Equal(t, []string{"A", "B", "C"}, ids(active))

		require.NoError(t, s.MoveToEnded(ctx, "B", nil))
		require.NoError(t, s.SetWinners(ctx, "B", []models.Participant{{ID: "w"}}))
		active[0].Prize = "mutated"

		assert.Equal(t, []string{"A", "B", "C"}, ids(active), "snapshot must not change after store mutation")
		assert.Equal(t, models.GiveawayStatusActive, active[1].Status)

		fresh, err := s.ListActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "C"}, ids(fresh))
		assert.Equal(t, "Headset A", fresh[0].Prize)
	})

	t.Run("concurrent move to ended succeeds once", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newGiveaway("M1", 0)))

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.MoveToEnded(ctx, "M1", nil); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
	})

	t.Run("every giveaway is in exactly one partition", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 5; i++ {
			require.NoError(t, s.Create(ctx, newGiveaway(fmt.Sprintf("G%d", i), time.Duration(i)*time.Second)))
		}
		require.NoError(t, s.MoveToEnded(ctx, "G1", nil))
		require.NoError(t, s.MoveToEnded(ctx, "G3", nil))

		active, err := s.ListActive(ctx)
		require.NoError(t, err)
		ended, err := s.ListEnded(ctx)
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"G0", "G2", "G4"}, ids(active))
		assert.ElementsMatch(t, []string{"G1", "G3"}, ids(ended))
	})
}

func ids(gs []*models.Giveaway) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}
