package service

import (
	apperrors "giveaway-bot/internal/common/errors"
)

var (
	// ErrInvalidDuration is returned by Start when the duration parses to zero.
	ErrInvalidDuration = apperrors.New(apperrors.ErrCodeInvalidDuration, "invalid duration")
	// ErrNotFound is returned when the giveaway is not in the partition the
	// operation expects.
	ErrNotFound = apperrors.New(apperrors.ErrCodeGiveawayNotFound, "giveaway not found")
)
