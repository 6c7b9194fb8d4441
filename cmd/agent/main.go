// Command agent runs the morning briefing pipeline: it aggregates news
// feeds, a weather reading and unread inbox mail, synthesizes a digest,
// and emails it to the configured recipient. By default it runs one
// briefing immediately; with -schedule it runs daily on a cron schedule.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"morning-brief/internal/config"
	"morning-brief/internal/domain/entity"
	"morning-brief/internal/infra/genai"
	"morning-brief/internal/infra/mailbox"
	"morning-brief/internal/infra/notifier"
	"morning-brief/internal/infra/scraper"
	"morning-brief/internal/infra/weather"
	workerPkg "morning-brief/internal/infra/worker"
	"morning-brief/internal/observability/logging"
	"morning-brief/internal/usecase/aggregate"
	"morning-brief/internal/usecase/briefing"
	"morning-brief/internal/usecase/digest"
	"morning-brief/internal/usecase/health"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	scheduled := flag.Bool("schedule", false, "run daily on the cron schedule instead of once now")
	dryRun := flag.Bool("dry-run", false, "log the briefing instead of sending it")
	flag.Parse()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	orchestrator := buildPipeline(logger, cfg, *dryRun)

	if !*scheduled {
		runOnce(logger, orchestrator, workerConfig.RunTimeout)
		return
	}

	runScheduled(logger, orchestrator, workerConfig, workerMetrics)
}

// buildPipeline wires the full briefing pipeline from configuration.
func buildPipeline(logger *slog.Logger, cfg *config.Config, dryRun bool) *briefing.Orchestrator {
	httpClient := newHTTPClient()

	sources := make([]aggregate.NewsSource, 0, len(cfg.Feeds))
	feedLimit := config.DefaultFeedLimit
	for _, feed := range cfg.Feeds {
		sources = append(sources, cappedSource{
			NewsSource: scraper.NewRSSSource(feed.Name, feed.URL, httpClient),
			limit:      feed.Limit,
		})
		if feed.Limit > feedLimit {
			feedLimit = feed.Limit
		}
	}
	logger.Info("news sources configured", slog.Int("count", len(sources)))

	weatherClient := weather.NewClient(weather.Config{
		City:        cfg.Weather.City,
		CountryCode: cfg.Weather.CountryCode,
		APIKey:      cfg.Weather.APIKey,
	}, httpClient)

	mailboxClient := mailbox.NewClient(mailbox.Config{
		Host:          cfg.Mailbox.Host,
		Username:      cfg.Mailbox.Username,
		Password:      cfg.Mailbox.Password,
		Folder:        cfg.Mailbox.Folder,
		SnippetMaxLen: cfg.Mailbox.SnippetMaxLen,
	})

	backend := createBackend(logger, cfg.Generation)
	selector := digest.NewSelector(backend, cfg.Generation.Models)

	probe := health.NewProbe(selector, weatherClient, mailboxClient)
	aggregator := aggregate.NewService(sources, feedLimit,
		weatherClient, mailboxClient, cfg.Mailbox.SinceDays, cfg.Mailbox.Limit)
	generator := digest.NewGenerator(backend, selector, cfg.Weather.City)

	var notify briefing.Notifier
	if dryRun {
		logger.Info("dry-run mode, deliveries will be logged only")
		notify = notifier.NewNoOpNotifier()
	} else {
		notify = notifier.NewSMTPNotifier(notifier.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		})
	}

	return briefing.NewOrchestrator(probe, aggregator, generator, notify)
}

// cappedSource applies a feed's own configured item limit on top of the
// aggregation-wide cap.
type cappedSource struct {
	aggregate.NewsSource
	limit int
}

func (c cappedSource) Fetch(ctx context.Context, limit int) ([]entity.NewsItem, error) {
	if c.limit > 0 && c.limit < limit {
		limit = c.limit
	}
	return c.NewsSource.Fetch(ctx, limit)
}

// createBackend creates the generation backend named by the config.
// API keys come from the environment.
func createBackend(logger *slog.Logger, cfg config.GenerationConfig) digest.Backend {
	switch cfg.Backend {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Warn("ANTHROPIC_API_KEY not set, briefings will use the fallback template")
			return genai.NewNoOp()
		}
		logger.Info("using Claude for briefing synthesis")
		return genai.NewClaude(apiKey, cfg.MaxTokens)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Warn("OPENAI_API_KEY not set, briefings will use the fallback template")
			return genai.NewNoOp()
		}
		logger.Info("using OpenAI for briefing synthesis")
		return genai.NewOpenAI(apiKey, cfg.MaxTokens)
	default:
		logger.Info("generation disabled, briefings will use the fallback template")
		return genai.NewNoOp()
	}
}

// runOnce executes a single briefing run and exits. The exit code
// reflects process startup only; a degraded or undelivered run still
// exits zero.
func runOnce(logger *slog.Logger, orchestrator *briefing.Orchestrator, timeout time.Duration) {
	logger.Info("running briefing immediately")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stats := orchestrator.Run(ctx)
	logger.Info("briefing finished",
		slog.String("run_id", stats.RunID),
		slog.Bool("delivered", stats.Delivered),
		slog.Bool("degraded", stats.Degraded),
		slog.Duration("duration", stats.Duration))
}

// runScheduled starts the cron scheduler plus the metrics and health
// servers, then blocks until a termination signal arrives.
func runScheduled(logger *slog.Logger, orchestrator *briefing.Orchestrator, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startMetricsServer(ctx, logger, cfg.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", cfg.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runScheduledJob(logger, orchestrator, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("agent started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	healthServer.SetReady(false)
	cronCtx := c.Stop()
	<-cronCtx.Done()
	cancel()
}

// runScheduledJob executes one scheduled briefing with its timeout and
// records worker metrics. Orchestrator.Run never fails; a run counts as
// a failure only when nothing was delivered.
func runScheduledJob(logger *slog.Logger, orchestrator *briefing.Orchestrator, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	start := time.Now()
	logger.Info("scheduled briefing started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	stats := orchestrator.Run(ctx)
	metrics.RecordJobDuration(time.Since(start).Seconds())

	if stats.Delivered {
		metrics.RecordJobRun("success")
		metrics.RecordLastSuccess()
	} else {
		metrics.RecordJobRun("failure")
	}

	logger.Info("scheduled briefing completed",
		slog.String("run_id", stats.RunID),
		slog.Bool("delivered", stats.Delivered),
		slog.Bool("degraded", stats.Degraded),
		slog.Int("news_items", stats.NewsCount),
		slog.Int("email_items", stats.EmailCount),
		slog.Bool("weather_included", stats.WeatherIncluded),
		slog.Duration("duration", stats.Duration))
}

// newHTTPClient creates the shared outbound HTTP client with timeouts,
// connection pooling, and TLS 1.2+ enforced.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
