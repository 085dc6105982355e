package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	apperrors "giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/presenter"
	"giveaway-bot/internal/features/giveaway/repository"
	"giveaway-bot/internal/metrics"
)

// StartRequest carries the host's start command.
type StartRequest struct {
	Duration    string
	WinnerCount int
	Prize       string
	Host        models.Participant
	ChannelID   string
}

// Outcome describes the result of End or Reroll.
type Outcome struct {
	Giveaway *models.Giveaway
	Winners  []models.Participant
	// NoParticipants is set when nobody was eligible.
	NoParticipants bool
}

type Options struct {
	JoinEmoji string
	// GatewayTimeout bounds each gateway call. Zero means no extra bound.
	GatewayTimeout time.Duration
}

// Deps are the collaborators of the engine. Store, Gateway and Dispatcher
// are required; the rest fall back to in-process defaults.
type Deps struct {
	Store      repository.GiveawayStore
	Gateway    Gateway
	Dispatcher Dispatcher
	Scheduler  Scheduler
	Locker     Locker
	Presenter  *presenter.Presenter
	Selector   *Selector
	Logger     zerolog.Logger
}

// Service is the giveaway lifecycle engine.
type Service struct {
	store      repository.GiveawayStore
	gateway    Gateway
	dispatcher Dispatcher
	scheduler  Scheduler
	locker     Locker
	presenter  *presenter.Presenter
	selector   *Selector
	logger     zerolog.Logger
	opts       Options
	now        func() time.Time
}

func NewService(deps Deps, opts Options) *Service {
	if opts.JoinEmoji == "" {
		opts.JoinEmoji = DefaultJoinEmoji
	}
	s := &Service{
		store:      deps.Store,
		gateway:    deps.Gateway,
		dispatcher: deps.Dispatcher,
		scheduler:  deps.Scheduler,
		locker:     deps.Locker,
		presenter:  deps.Presenter,
		selector:   deps.Selector,
		logger:     deps.Logger,
		opts:       opts,
		now:        time.Now,
	}
	if s.scheduler == nil {
		s.scheduler = NewTimerScheduler()
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	if s.presenter == nil {
		s.presenter = presenter.New(opts.JoinEmoji)
	}
	if s.selector == nil {
		s.selector = NewSelector(nil)
	}
	return s
}

// JoinEmoji is the reaction participants use to enter.
func (s *Service) JoinEmoji() string {
	return s.opts.JoinEmoji
}

// Presenter exposes the renderer used for announcements so the command layer
// replies with the same wording.
func (s *Service) Presenter() *presenter.Presenter {
	return s.presenter
}

// Start announces a new giveaway and arms its deadline.
func (s *Service) Start(ctx context.Context, req StartRequest) (*models.Giveaway, error) {
	seconds := models.ParseDuration(req.Duration)
	if seconds <= 0 || int64(seconds) > math.MaxInt64/int64(time.Second) {
		return nil, ErrInvalidDuration
	}
	d := time.Duration(seconds) * time.Second

	now := s.now()
	g := &models.Giveaway{
		Prize:       req.Prize,
		WinnerCount: req.WinnerCount,
		Host:        req.Host,
		ChannelID:   req.ChannelID,
		Duration:    req.Duration,
		Status:      models.GiveawayStatusActive,
		CreatedAt:   now,
		EndsAt:      now.Add(d),
	}

	gctx, cancel := s.gatewayContext(ctx)
	messageID, err := s.gateway.Post(gctx, req.ChannelID, s.presenter.Announcement(g))
	cancel()
	if err != nil {
		return nil, apperrors.NewGatewayError("post announcement", err)
	}
	g.ID = messageID

	gctx, cancel = s.gatewayContext(ctx)
	if err := s.gateway.AddReaction(gctx, g.ChannelID, g.ID, s.opts.JoinEmoji); err != nil {
		s.logger.Warn().Err(err).Str("giveaway_id", g.ID).Msg("Failed to add join reaction")
	}
	cancel()

	if err := s.store.Create(ctx, g); err != nil {
		return nil, apperrors.NewStoreError("create giveaway", err)
	}

	id := g.ID
	s.scheduler.Schedule(id, d, func() { s.autoEnd(id) })
	metrics.GiveawaysStarted.Inc()

	s.logger.Info().
		Str("giveaway_id", g.ID).
		Str("prize", g.Prize).
		Int("winner_count", g.WinnerCount).
		Time("ends_at", g.EndsAt).
		Msg("Giveaway started")

	return g.Clone(), nil
}

func (s *Service) autoEnd(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), AutoEndTimeout)
	defer cancel()

	if _, err := s.End(ctx, id, true); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug().Str("giveaway_id", id).Msg("Deadline reached for a giveaway that already ended")
			return
		}
		s.logger.Error().Err(err).Str("giveaway_id", id).Msg("Failed to end giveaway at deadline")
	}
}

// TogglePause flips an active giveaway between active and paused. The armed
// deadline keeps running while paused.
func (s *Service) TogglePause(ctx context.Context, id string) (*models.Giveaway, error) {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	paused := !g.IsPaused()
	if err := s.store.UpdatePaused(ctx, id, paused); err != nil {
		return nil, s.storeError("update paused", err)
	}
	g.Status = models.GiveawayStatusActive
	if paused {
		g.Status = models.GiveawayStatusPaused
	}

	s.logger.Info().Str("giveaway_id", id).Bool("paused", paused).Msg("Giveaway pause toggled")
	return g, nil
}

// End resolves an active or paused giveaway. A second End on the same id
// returns ErrNotFound.
func (s *Service) End(ctx context.Context, id string, automatic bool) (*Outcome, error) {
	started := time.Now()

	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	entrants, err := s.entrants(ctx, g)
	if err != nil {
		return nil, err
	}

	// The record may have changed while the gateway was being read.
	if g, err = s.getActive(ctx, id); err != nil {
		return nil, err
	}

	winners, err := s.selector.Select(entrants, g.WinnerCount)
	if err != nil {
		return nil, err
	}

	msg := s.presenter.NoParticipants(g)
	if len(winners) > 0 {
		msg = s.presenter.Winners(g, winners)
	}
	if err := s.send(ctx, g.ChannelID, msg); err != nil {
		return nil, err
	}

	if err := s.store.MoveToEnded(ctx, id, winners); err != nil {
		return nil, s.storeError("move to ended", err)
	}
	s.scheduler.Cancel(id)

	g.Status = models.GiveawayStatusEnded
	g.Winners = winners

	if len(winners) > 0 {
		s.dispatcher.Notify(ctx, winners, s.presenter.WinnerDM(g))
	}
	metrics.RecordEnded(automatic, time.Since(started).Seconds())

	s.logger.Info().
		Str("giveaway_id", id).
		Bool("automatic", automatic).
		Int("entrants", len(entrants)).
		Int("winners", len(winners)).
		Msg("Giveaway ended")

	return &Outcome{Giveaway: g.Clone(), Winners: winners, NoParticipants: len(winners) == 0}, nil
}

// Reroll draws a fresh set of winners for an ended giveaway. Previous
// winners stay eligible. When nobody is eligible the stored winners are kept.
func (s *Service) Reroll(ctx context.Context, id string) (*Outcome, error) {
	started := time.Now()

	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.getEnded(ctx, id)
	if err != nil {
		return nil, err
	}

	entrants, err := s.entrants(ctx, g)
	if err != nil {
		return nil, err
	}

	if g, err = s.getEnded(ctx, id); err != nil {
		return nil, err
	}

	winners, err := s.selector.Select(entrants, g.WinnerCount)
	if err != nil {
		return nil, err
	}

	if len(winners) == 0 {
		if err := s.send(ctx, g.ChannelID, s.presenter.RerollNoParticipants(g)); err != nil {
			return nil, err
		}
		s.logger.Info().Str("giveaway_id", id).Msg("Reroll found no participants")
		return &Outcome{Giveaway: g.Clone(), Winners: winners, NoParticipants: true}, nil
	}

	if err := s.send(ctx, g.ChannelID, s.presenter.Reroll(g, winners)); err != nil {
		return nil, err
	}
	if err := s.store.SetWinners(ctx, id, winners); err != nil {
		return nil, s.storeError("set winners", err)
	}
	g.Winners = winners

	s.dispatcher.Notify(ctx, winners, s.presenter.RerollDM(g))
	metrics.RecordRerolled(time.Since(started).Seconds())

	s.logger.Info().
		Str("giveaway_id", id).
		Int("entrants", len(entrants)).
		Int("winners", len(winners)).
		Msg("Giveaway rerolled")

	return &Outcome{Giveaway: g.Clone(), Winners: winners}, nil
}

func (s *Service) ListActive(ctx context.Context) ([]*models.Giveaway, error) {
	gs, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list active", err)
	}
	return gs, nil
}

func (s *Service) ListEnded(ctx context.Context) ([]*models.Giveaway, error) {
	gs, err := s.store.ListEnded(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list ended", err)
	}
	return gs, nil
}

// Join acknowledges a join reaction with a private message. It reports
// whether a message was dispatched; reactions with another emoji, by bots or
// on giveaways outside the active partition are ignored.
func (s *Service) Join(ctx context.Context, id, emoji string, user models.Participant) (bool, error) {
	if user.Bot || emoji != s.opts.JoinEmoji {
		return false, nil
	}

	g, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return false, nil
		}
		return false, apperrors.NewStoreError("get giveaway", err)
	}
	if !g.Status.IsActivePartition() {
		return false, nil
	}

	s.dispatcher.Notify(ctx, []models.Participant{user}, s.presenter.EntryApprovedDM(g))
	s.logger.Debug().Str("giveaway_id", id).Str("user_id", user.ID).Msg("Entry approved")
	return true, nil
}

func (s *Service) getActive(ctx context.Context, id string) (*models.Giveaway, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.Status.IsActivePartition() {
		return nil, apperrors.NewGiveawayNotFoundError(id)
	}
	return g, nil
}

func (s *Service) getEnded(ctx context.Context, id string) (*models.Giveaway, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsEnded() {
		return nil, apperrors.NewGiveawayNotFoundError(id)
	}
	return g, nil
}

func (s *Service) get(ctx context.Context, id string) (*models.Giveaway, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("get giveaway", err)
	}
	return g, nil
}

// entrants returns the non-bot users currently holding the join reaction.
func (s *Service) entrants(ctx context.Context, g *models.Giveaway) ([]models.Participant, error) {
	gctx, cancel := s.gatewayContext(ctx)
	defer cancel()

	users, err := s.gateway.ReactionUsers(gctx, g.ChannelID, g.ID, s.opts.JoinEmoji)
	if err != nil {
		return nil, apperrors.NewGatewayError("read reactions", err)
	}
	out := make([]models.Participant, 0, len(users))
	for _, u := range users {
		if !u.Bot {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) send(ctx context.Context, channelID string, msg models.Message) error {
	gctx, cancel := s.gatewayContext(ctx)
	defer cancel()

	if err := s.gateway.Send(gctx, channelID, msg); err != nil {
		return apperrors.NewGatewayError("send message", err)
	}
	return nil
}

func (s *Service) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.GatewayTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.GatewayTimeout)
}

// storeError maps partition misses to ErrNotFound and wraps everything else.
func (s *Service) storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrGiveawayNotFound),
		errors.Is(err, repository.ErrNotActive),
		errors.Is(err, repository.ErrNotEnded):
		return apperrors.Wrap(err, apperrors.ErrCodeGiveawayNotFound, "giveaway not found").WithDetail("operation", op)
	default:
		return apperrors.NewStoreError(op, err)
	}
}
