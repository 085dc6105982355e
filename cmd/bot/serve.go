package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/common/logger"
	delivery "giveaway-bot/internal/features/giveaway/delivery/discord"
	"giveaway-bot/internal/features/giveaway/presenter"
	"giveaway-bot/internal/features/giveaway/repository"
	"giveaway-bot/internal/features/giveaway/repository/memory"
	redisrepo "giveaway-bot/internal/features/giveaway/repository/redis"
	"giveaway-bot/internal/features/giveaway/service"
	apphttp "giveaway-bot/internal/http"
	discordclient "giveaway-bot/internal/platform/discord"
	platformredis "giveaway-bot/internal/platform/redis"
)

const shutdownTimeout = 30 * time.Second

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		ServiceName: cfg.ServiceName,
		Debug:       cfg.Debug,
		Format:      cfg.LogFormat,
	})
	return cfg, nil
}

func commandServe() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "connect to Discord and run the keep-alive server",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(c.Context, cfg)
		},
	}
}

// backend is the selected store with its matching lock and readiness checks.
type backend struct {
	store  repository.GiveawayStore
	locker service.Locker
	checks []apphttp.Check
	close  func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Store.Backend != config.StoreBackendRedis {
		return &backend{
			store:  memory.NewStore(),
			locker: service.NewLocalLocker(),
			close:  func() {},
		}, nil
	}

	client, err := platformredis.Open(ctx, platformredis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}

	store := redisrepo.NewStore(client, cfg.Redis.KeyPrefix)
	if cfg.Redis.ResetOnStart {
		if err := store.Reset(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reset giveaway state: %w", err)
		}
		logger.Info().Str("prefix", cfg.Redis.KeyPrefix).Msg("Cleared giveaway state from a previous run")
	}

	rs := redsync.New(goredis.NewPool(client))
	return &backend{
		store:  store,
		locker: service.NewRedisLocker(rs, cfg.Store.LockTimeout, logger.Component("locker")),
		checks: []apphttp.Check{{Name: "redis", Check: platformredis.Ping(client)}},
		close:  func() { _ = client.Close() },
	}, nil
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Component("bot")
	log.Info().
		Bool("debug", cfg.Debug).
		Str("store", cfg.Store.Backend).
		Msg("Starting giveaway bot")

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	session, err := discordclient.NewSession(cfg.Discord.Token)
	if err != nil {
		return err
	}
	gateway := discordclient.NewClient(session, logger.Component("discord"))

	notifier := service.NewNotifier(gateway, service.NotifierConfig{
		Concurrency: cfg.Notify.Concurrency,
		Rate:        cfg.Notify.Rate,
		Burst:       cfg.Notify.Burst,
		Timeout:     cfg.Notify.Timeout,
	}, logger.Component("notifier"))
	scheduler := service.NewTimerScheduler()
	p := presenter.New(cfg.Discord.JoinEmoji)

	svc := service.NewService(service.Deps{
		Store:      be.store,
		Gateway:    gateway,
		Dispatcher: notifier,
		Scheduler:  scheduler,
		Locker:     be.locker,
		Presenter:  p,
		Logger:     logger.Component("engine"),
	}, service.Options{
		JoinEmoji:      cfg.Discord.JoinEmoji,
		GatewayTimeout: cfg.Discord.GatewayTimeout,
	})

	handler := delivery.NewHandler(svc, p, logger.Component("commands"))
	handler.Register(session)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Connected to Discord")
		cmds, err := delivery.RegisterCommands(s, r.User.ID, cfg.Discord.GuildID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to register slash commands")
			return
		}
		log.Info().Int("commands", len(cmds)).Msg("Slash commands registered")
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	checks := append([]apphttp.Check{{Name: "discord", Check: func(context.Context) error {
		if !session.DataReady {
			return errors.New("gateway not ready")
		}
		return nil
	}}}, be.checks...)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		ServiceName: cfg.ServiceName,
		Origin:      cfg.Server.Origin,
		Debug:       cfg.Debug,
	}, logger.Component("http"), checks...)
	srv := apphttp.NewServer(cfg.Server.Port, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.Server.Port).Msg("Web server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		scheduler.Stop()
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close discord gateway")
		}

		done := make(chan struct{})
		go func() {
			notifier.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			log.Warn().Msg("Gave up waiting for pending notifications")
		}

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Giveaway bot stopped")
	return nil
}
