package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"minidxo/internal/agent"
	"minidxo/internal/config"
	"minidxo/internal/consultation"
	"minidxo/internal/logging"
	"minidxo/internal/platform/telegram"
	"minidxo/internal/platform/web"
	"minidxo/internal/relay"
	"minidxo/internal/report"
)

func main() {
	cfg := config.LoadServer()
	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	log := logging.New("server")

	if cfg.Gateway.APIKey == "" {
		log.Warn("GATEWAY_API_KEY is not set; chat requests will fail until it is configured")
	}

	// 1. Clients
	gateway := agent.NewGatewayClient(cfg.Gateway.APIKey,
		agent.WithBaseURL(cfg.Gateway.URL),
		agent.WithModel(cfg.Gateway.Model),
	)
	relayHandler := relay.NewHandler(gateway)

	// 2. Archive (optional)
	archiveHandler, db := setupArchive(cfg, log)
	if db != nil {
		defer db.Close()
	}

	// 3. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(web.CORS)

	r.Group(func(r chi.Router) {
		r.Use(web.BearerAuth(cfg.RelayToken))
		relay.RegisterRoutes(r, relayHandler)
		if archiveHandler != nil {
			r.Route("/api", func(r chi.Router) {
				consultation.RegisterRoutes(r, archiveHandler)
			})
		}
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// setupArchive connects to PostgreSQL, applies migrations and builds the
// archive handler. It returns nil when no database is configured or
// reachable; the chat relay works without it.
func setupArchive(cfg *config.Server, log *slog.Logger) (*consultation.Handler, *sql.DB) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL is not set; consultation archive disabled")
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err == nil {
		err = waitForDB(db, log)
	}
	if err != nil {
		log.Error("could not connect to database; consultation archive disabled", "err", err)
		if db != nil {
			db.Close()
		}
		return nil, nil
	}
	log.Info("connected to database")

	m, err := migrate.New("file://"+cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		log.Error("migration init failed", "err", err)
	} else if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("migration up failed", "err", err)
	} else {
		log.Info("migrations applied")
	}

	var tg report.TelegramClient
	if cfg.Telegram.Token != "" {
		tg = telegram.NewClient(cfg.Telegram.Token)
	}
	if tg != nil && cfg.Telegram.DoctorChatID == 0 {
		log.Warn("DOCTOR_CHAT_ID is not set or invalid; reports will not be delivered")
	}

	var fonts []string
	if cfg.ReportFont != "" {
		fonts = []string{cfg.ReportFont}
	}
	reportSvc := report.NewService(tg, cfg.Telegram.DoctorChatID, fonts...)

	repo := consultation.NewRepository(db)
	svc := consultation.NewService(repo, reportSvc)
	return consultation.NewHandler(svc), db
}

func waitForDB(db *sql.DB, log *slog.Logger) error {
	var err error
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		log.Info("waiting for database", "attempt", i+1, "of", 10)
		time.Sleep(time.Second)
	}
	return err
}
