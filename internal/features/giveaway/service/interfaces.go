package service

import (
	"context"
	"time"

	"giveaway-bot/internal/features/giveaway/models"
)

// Gateway is the chat platform as seen by the engine.
type Gateway interface {
	// Post sends a message to a channel and returns the new message id.
	Post(ctx context.Context, channelID string, msg models.Message) (string, error)
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	// ReactionUsers returns every user who applied emoji to the message.
	ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]models.Participant, error)
	Send(ctx context.Context, channelID string, msg models.Message) error
	DirectSender
}

// DirectSender delivers a private message to a single user.
type DirectSender interface {
	SendDirect(ctx context.Context, userID string, msg models.Message) error
}

// Scheduler owns one-shot deadline entries keyed by giveaway id.
type Scheduler interface {
	// Schedule arms fn to run once after d. An existing entry for id is replaced.
	Schedule(id string, d time.Duration, fn func())
	// Cancel disarms the entry for id and reports whether one was pending.
	Cancel(id string) bool
	Stop()
}

// Locker serialises operations on one giveaway.
type Locker interface {
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

// Dispatcher sends best-effort private notifications.
type Dispatcher interface {
	Notify(ctx context.Context, recipients []models.Participant, msg models.Message)
	Wait()
}
