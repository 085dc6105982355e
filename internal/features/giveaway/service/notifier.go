package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/metrics"
)

// NotifierConfig tunes private delivery.
type NotifierConfig struct {
	Concurrency int
	// Rate is deliveries per second across all recipients.
	Rate    float64
	Burst   int
	Timeout time.Duration
}

// Notifier delivers private messages without blocking the caller. Each
// recipient is handled independently: a failure is logged and counted, and
// never affects the other recipients.
type Notifier struct {
	sender  DirectSender
	limiter *rate.Limiter
	cfg     NotifierConfig
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

var _ Dispatcher = (*Notifier)(nil)

func NewNotifier(sender DirectSender, cfg NotifierConfig, logger zerolog.Logger) *Notifier {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultNotifyConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultNotifyTimeout
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &Notifier{
		sender:  sender,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		cfg:     cfg,
		logger:  logger,
	}
}

// Notify issues one delivery per recipient and returns immediately. Deliveries
// outlive ctx's cancellation but keep its values.
func (n *Notifier) Notify(ctx context.Context, recipients []models.Participant, msg models.Message) {
	if len(recipients) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	batch := append([]models.Participant(nil), recipients...)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		var g errgroup.Group
		g.SetLimit(n.cfg.Concurrency)
		for _, r := range batch {
			r := r
			g.Go(func() error {
				n.deliver(base, r, msg)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Wait blocks until every delivery issued so far has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, r models.Participant, msg models.Message) {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	err := n.limiter.Wait(ctx)
	if err == nil {
		err = n.sender.SendDirect(ctx, r.ID, msg)
	}
	metrics.RecordNotification(err)
	if err != nil {
		n.logger.Warn().Err(err).
			Str("user_id", r.ID).
			Str("username", r.Username).
			Msg("Could not deliver private notification")
		return
	}
	n.logger.Debug().Str("user_id", r.ID).Msg("Private notification delivered")
}
