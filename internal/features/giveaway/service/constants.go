package service

import "time"

const (
	DefaultJoinEmoji = "🎉"

	// Timeout for the automatic End fired by the scheduler.
	AutoEndTimeout = 2 * time.Minute
	// Timeout for a single private delivery.
	DefaultNotifyTimeout = 10 * time.Second
	// Default number of deliveries in flight.
	DefaultNotifyConcurrency = 5
	// Timeout for holding a per-giveaway lock.
	LockTimeout = 30 * time.Second

	lockKeyPrefix  = "lock:giveaway:"
	lockRetryDelay = 50 * time.Millisecond
)
