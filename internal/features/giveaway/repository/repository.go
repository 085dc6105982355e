package repository

import (
	"context"
	"errors"

	"giveaway-bot/internal/features/giveaway/models"
)

var (
	ErrGiveawayNotFound = errors.New("giveaway not found")
	ErrAlreadyExists    = errors.New("giveaway already exists")
	ErrNotActive        = errors.New("giveaway is not active")
	ErrNotEnded         = errors.New("giveaway has not ended")
)

// GiveawayStore is the authoritative repository of giveaways, split into an
// active partition (active or paused) and an ended partition. Every method is
// a single atomic step; returned giveaways are copies and never alias store
// state.
type GiveawayStore interface {
	Create(ctx context.Context, g *models.Giveaway) error
	Get(ctx context.Context, id string) (*models.Giveaway, error)
	// MoveToEnded moves an active or paused giveaway to the ended partition
	// and records its winners in the same step.
	MoveToEnded(ctx context.Context, id string, winners []models.Participant) error
	UpdatePaused(ctx context.Context, id string, paused bool) error
	// SetWinners replaces the winners of an ended giveaway.
	SetWinners(ctx context.Context, id string, winners []models.Participant) error
	ListActive(ctx context.Context) ([]*models.Giveaway, error)
	ListEnded(ctx context.Context) ([]*models.Giveaway, error)
}
