package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/lead_bot/internal/bot"
	"github.com/ivanoskov/lead_bot/internal/charts"
	"github.com/ivanoskov/lead_bot/internal/config"
	"github.com/ivanoskov/lead_bot/internal/health"
	"github.com/ivanoskov/lead_bot/internal/metrics"
	"github.com/ivanoskov/lead_bot/internal/repository"
	"github.com/ivanoskov/lead_bot/internal/script"
	"github.com/ivanoskov/lead_bot/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	sc, err := script.Load(cfg.PromptsFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		log.Fatalf("telegram init error: %v", err)
	}
	api.Debug = false
	logger.Info("authorized", "username", api.Self.UserName, "store", cfg.StoreDriver)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	funnel := service.NewFunnel()
	sender := bot.NewSender(api, cfg.SendRate)
	engine := service.NewEngine(sc, sender, store, bot.NewOperatorNotifier(sender, cfg.GroupChatID, sc),
		service.WithFunnel(funnel),
		service.WithMetrics(metrics.New(reg)),
		service.WithLogger(logger),
		service.WithSinkTimeout(cfg.SinkTimeout),
	)
	b := bot.NewBot(api, sender, engine,
		bot.WithAdmins(cfg.AdminChatIDs),
		bot.WithFunnel(funnel, charts.NewChartGenerator()),
		bot.WithLogger(logger),
		bot.WithPollTimeout(cfg.PollTimeout),
	)

	routes := map[string]http.Handler{}
	if cfg.WebhookPath != "" {
		routes[cfg.WebhookPath] = b.WebhookHandler()
	}
	srv := health.NewServer(cfg.HTTPAddr, health.NewHandler(reg, routes))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// webhook-обработчики завершены, новых обновлений не будет
		b.Wait()
		return err
	})
	g.Go(func() error {
		if cfg.WebhookPath != "" {
			logger.Info("receiving updates by webhook", "path", cfg.WebhookPath)
			<-gctx.Done()
			return nil
		}
		logger.Info("receiving updates by long polling")
		return b.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}
