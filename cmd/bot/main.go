package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	taskfaucet "github.com/set-night/taskfaucet"
	"github.com/set-night/taskfaucet/internal/config"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/set-night/taskfaucet/internal/handler"
	"github.com/set-night/taskfaucet/internal/lock"
	"github.com/set-night/taskfaucet/internal/middleware"
	"github.com/set-night/taskfaucet/internal/repository"
	"github.com/set-night/taskfaucet/internal/server"
	"github.com/set-night/taskfaucet/internal/service"
	"github.com/set-night/taskfaucet/internal/telegram"
	"github.com/set-night/taskfaucet/internal/tonrail"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("bot stopped gracefully")
}

func run() error {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrationsFS, err := fs.Sub(taskfaucet.MigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		return err
	}

	store := repository.NewStore(pool)
	mirror := service.NewMirror()

	locker, closeLocker, err := openLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	rail, err := tonrail.Dial(ctx, tonrail.Config{
		GlobalConfigURL: cfg.TonConfigURL,
		Seed:            cfg.WalletSeed,
		WalletVersion:   cfg.WalletVersion,
		Testnet:         cfg.TonTestnet,
		Comment:         config.TransferComment,
	})
	if err != nil {
		return fmt.Errorf("open ton wallet: %w", err)
	}

	// The log chat needs the bot, the middlewares need the log chat.
	logs := &deferredLogger{}

	ledger := service.NewLedger(store, mirror, cfg.Cooldown)
	userService := service.NewUserService(store, ledger)

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(logs),
			middleware.Logging(),
			middleware.RateLimit(middleware.NewLimiter(config.RateLimitPerMinute, time.Minute)),
			middleware.UserLoader(userService, cfg, logs),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {}),
	}
	if cfg.UseWebhook() && cfg.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(cfg.WebhookSecret))
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("get bot info: %w", err)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	tgLogger := telegram.NewTelegramLogger(b, cfg)
	logs.l = tgLogger

	catalog := service.NewCatalogService(store, mirror, service.NewLinkPreviewService(&http.Client{Timeout: config.LinkProbeTimeout}))
	if err := catalog.LoadActive(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	slog.Info("tasks loaded", "count", catalog.Count())

	h := handler.New(handler.Deps{
		Bot:        b,
		Cfg:        cfg,
		Users:      userService,
		Ledger:     ledger,
		Catalog:    catalog,
		Completion: service.NewCompletionService(ledger, catalog, service.NewSpamGuard(cfg.SpamWindow), tgLogger, cfg.VerifyDelay),
		Claims:     service.NewClaimService(ledger, rail, locker, tgLogger),
		Broadcasts: service.NewBroadcastService(store, telegram.NewSender(b), config.BroadcastInterval),
		Stats:      service.NewStatsService(store, catalog, rail, config.FaucetBalanceTTL),
		TgLogger:   tgLogger,
	})
	h.Register()

	var webhook http.Handler
	if cfg.UseWebhook() {
		webhook = b.WebhookHandler()
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.NewRouter(webhook, pool, started),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if cfg.UseWebhook() {
			if _, err := b.SetWebhook(gctx, &bot.SetWebhookParams{
				URL:                cfg.WebhookURL + server.WebhookPath,
				SecretToken:        cfg.WebhookSecret,
				DropPendingUpdates: cfg.DropPendingUpdates,
			}); err != nil {
				return fmt.Errorf("set webhook: %w", err)
			}
			slog.Info("starting bot", "mode", "webhook", "username", me.Username)
			b.StartWebhook(gctx)
			return nil
		}

		if _, err := b.DeleteWebhook(gctx, &bot.DeleteWebhookParams{DropPendingUpdates: cfg.DropPendingUpdates}); err != nil {
			slog.Warn("delete webhook failed", "error", err)
		}
		slog.Info("starting bot", "mode", "polling", "username", me.Username)
		b.Start(gctx)
		return nil
	})

	err = g.Wait()

	// Let running verifications and payouts finish their bookkeeping.
	h.Wait()
	return err
}

// openLocker shares claim locks through Redis when configured, otherwise keeps them in-process.
func openLocker(ctx context.Context, cfg *config.Config) (service.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("claim lock is in-process")
		return lock.NewLocal(), func() {}, nil
	}

	client, err := lock.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("claim lock uses redis", "addr", cfg.RedisAddr)
	return lock.NewRedis(client, config.ClaimLockTTL), func() { _ = client.Close() }, nil
}

// deferredLogger forwards to the Telegram log chat once it exists.
type deferredLogger struct {
	l *telegram.TelegramLogger
}

func (d *deferredLogger) LogError(err error, where string) {
	if d.l != nil {
		d.l.LogError(err, where)
	}
}

func (d *deferredLogger) LogRegistration(u *domain.User) {
	if d.l != nil {
		d.l.LogRegistration(u)
	}
}
