package memory

import (
	"context"
	"sort"
	"sync"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
)

// Store keeps giveaways in process memory. Ended giveaways are never evicted,
// so the ended partition grows for the lifetime of the process.
type Store struct {
	mu     sync.RWMutex
	active map[string]*models.Giveaway
	ended  map[string]*models.Giveaway
}

func NewStore() *Store {
	return &Store{
		active: make(map[string]*models.Giveaway),
		ended:  make(map[string]*models.Giveaway),
	}
}

var _ repository.GiveawayStore = (*Store)(nil)

func (s *Store) Create(_ context.Context, g *models.Giveaway) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[g.ID]; ok {
		return repository.ErrAlreadyExists
	}
	if _, ok := s.ended[g.ID]; ok {
		return repository.ErrAlreadyExists
	}

	c := g.Clone()
	if !c.Status.IsActivePartition() {
		c.Status = models.GiveawayStatusActive
	}
	s.active[c.ID] = c
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*models.Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g, ok := s.active[id]; ok {
		return g.Clone(), nil
	}
	if g, ok := s.ended[id]; ok {
		return g.Clone(), nil
	}
	return nil, repository.ErrGiveawayNotFound
}

func (s *Store) MoveToEnded(_ context.Context, id string, winners []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.active[id]
	if !ok {
		return repository.ErrNotActive
	}
	delete(s.active, id)
	g.Status = models.GiveawayStatusEnded
	g.Winners = append([]models.Participant(nil), winners...)
	s.ended[id] = g
	return nil
}

func (s *Store) UpdatePaused(_ context.Context, id string, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.active[id]
	if !ok {
		return repository.ErrNotActive
	}
	if paused {
		g.Status = models.GiveawayStatusPaused
	} else {
		g.Status = models.GiveawayStatusActive
	}
	return nil
}

func (s *Store) SetWinners(_ context.Context, id string, winners []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.ended[id]
	if !ok {
		return repository.ErrNotEnded
	}
	g.Winners = append([]models.Participant(nil), winners...)
	return nil
}

func (s *Store) ListActive(_ context.Context) ([]*models.Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.active), nil
}

func (s *Store) ListEnded(_ context.Context) ([]*models.Giveaway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.ended), nil
}

func snapshot(m map[string]*models.Giveaway) []*models.Giveaway {
	out := make([]*models.Giveaway, 0, len(m))
	for _, g := range m {
		out = append(out, g.Clone())
	}
	sortByCreated(out)
	return out
}

func sortByCreated(gs []*models.Giveaway) {
	sort.SliceStable(gs, func(i, j int) bool {
		if gs[i].CreatedAt.Equal(gs[j].CreatedAt) {
			return gs[i].ID < gs[j].ID
		}
		return gs[i].CreatedAt.Before(gs[j].CreatedAt)
	})
}
