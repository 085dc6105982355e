package service

import (
	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/utils/random"
)

// Selector draws winners uniformly without replacement.
type Selector struct {
	src random.Source
}

func NewSelector(src random.Source) *Selector {
	if src == nil {
		src = random.Crypto
	}
	return &Selector{src: src}
}

// Select returns min(len(eligible), count) distinct participants. Duplicate
// entries (same ID) count once. Every subset of size count is equally likely.
func (s *Selector) Select(eligible []models.Participant, count int) ([]models.Participant, error) {
	pool := dedupe(eligible)
	if len(pool) == 0 || count <= 0 {
		return []models.Participant{}, nil
	}
	if len(pool) <= count {
		return pool, nil
	}

	winners, err := random.Sample(pool, count, s.src)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRandomSource, "failed to draw winners")
	}
	return winners, nil
}

func dedupe(ps []models.Participant) []models.Participant {
	seen := make(map[string]struct{}, len(ps))
	out := make([]models.Participant, 0, len(ps))
	for _, p := range ps {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
