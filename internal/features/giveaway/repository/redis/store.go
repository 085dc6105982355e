package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/repository"
)

const (
	keyPrefixGiveaway  = "giveaway:"
	keyActiveGiveaways = "giveaways:active"
	keyEndedGiveaways  = "giveaways:ended"
	maxTxRetries       = 10
	scanBatch          = 200
)

// Store keeps giveaways in Redis: one JSON document per giveaway plus a set
// per partition. Mutations run as WATCH/MULTI transactions and are retried on
// conflicting writes.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ repository.GiveawayStore = (*Store)(nil)

func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) giveawayKey(id string) string {
	return s.prefix + keyPrefixGiveaway + id
}

func (s *Store) activeKey() string {
	return s.prefix + keyActiveGiveaways
}

func (s *Store) endedKey() string {
	return s.prefix + keyEndedGiveaways
}

func (s *Store) Create(ctx context.Context, g *models.Giveaway) error {
	c := g.Clone()
	if !c.Status.IsActivePartition() {
		c.Status = models.GiveawayStatusActive
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	key := s.giveawayKey(c.ID)
	return s.transact(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return repository.ErrAlreadyExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, s.activeKey(), c.ID)
			return nil
		})
		return err
	}, key)
}

func (s *Store) Get(ctx context.Context, id string) (*models.Giveaway, error) {
	return s.load(ctx, s.client, id)
}

func (s *Store) MoveToEnded(ctx context.Context, id string, winners []models.Participant) error {
	return s.update(ctx, id, s.activeKey(), repository.ErrNotActive, func(g *models.Giveaway, pipe redis.Pipeliner) {
		g.Status = models.GiveawayStatusEnded
		g.Winners = append([]models.Participant(nil), winners...)
		pipe.SMove(ctx, s.activeKey(), s.endedKey(), id)
	})
}

func (s *Store) UpdatePaused(ctx context.Context, id string, paused bool) error {
	return s.update(ctx, id, s.activeKey(), repository.ErrNotActive, func(g *models.Giveaway, _ redis.Pipeliner) {
		if paused {
			g.Status = models.GiveawayStatusPaused
		} else {
			g.Status = models.GiveawayStatusActive
		}
	})
}

func (s *Store) SetWinners(ctx context.Context, id string, winners []models.Participant) error {
	return s.update(ctx, id, s.endedKey(), repository.ErrNotEnded, func(g *models.Giveaway, _ redis.Pipeliner) {
		g.Winners = append([]models.Participant(nil), winners...)
	})
}

func (s *Store) ListActive(ctx context.Context) ([]*models.Giveaway, error) {
	return s.list(ctx, s.activeKey(), func(g *models.Giveaway) bool { return g.Status.IsActivePartition() })
}

func (s *Store) ListEnded(ctx context.Context) ([]*models.Giveaway, error) {
	return s.list(ctx, s.endedKey(), func(g *models.Giveaway) bool { return g.IsEnded() })
}

// Reset deletes every key under the store prefix. It is called on startup so
// that giveaways never outlive the process that scheduled their timers.
func (s *Store) Reset(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// update applies mutate to the giveaway if it is a member of partitionKey and
// writes it back in the same transaction.
func (s *Store) update(ctx context.Context, id, partitionKey string, notMember error, mutate func(*models.Giveaway, redis.Pipeliner)) error {
	key := s.giveawayKey(id)
	return s.transact(ctx, func(tx *redis.Tx) error {
		ok, err := tx.SIsMember(ctx, partitionKey, id).Result()
		if err != nil {
			return err
		}
		if !ok {
			return notMember
		}
		g, err := s.load(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repository.ErrGiveawayNotFound) {
				return notMember
			}
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			mutate(g, pipe)
			data, err := json.Marshal(g)
			if err != nil {
				return fmt.Errorf("failed to marshal giveaway: %w", err)
			}
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key, partitionKey)
}

func (s *Store) transact(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis transaction on %v: %w", keys, redis.TxFailedErr)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) load(ctx context.Context, c getter, id string) (*models.Giveaway, error) {
	data, err := c.Get(ctx, s.giveawayKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrGiveawayNotFound
	}
	if err != nil {
		return nil, err
	}

	var g models.Giveaway
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal giveaway %s: %w", id, err)
	}
	return &g, nil
}

func (s *Store) list(ctx context.Context, setKey string, keep func(*models.Giveaway) bool) ([]*models.Giveaway, error) {
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Giveaway, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.giveawayKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var g models.Giveaway
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal giveaway %s: %w", ids[i], err)
		}
		// A concurrent move may land between SMEMBERS and MGET.
		if keep(&g) {
			out = append(out, &g)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
