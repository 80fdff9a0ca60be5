package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/taskminder/internal/config"
	"github.com/dukerupert/taskminder/internal/database"
	"github.com/dukerupert/taskminder/internal/email"
	"github.com/dukerupert/taskminder/internal/logging"
	"github.com/dukerupert/taskminder/internal/reminder"
	"github.com/dukerupert/taskminder/internal/server"
	"github.com/dukerupert/taskminder/internal/store"
)

// sentRetention is how long daily-summary dedup records are kept.
const sentRetention = 7 * 24 * time.Hour

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, server.Config{
		Location:       cfg.Location,
		SessionTTL:     cfg.SessionTTL,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: it would cut long-lived WebSocket connections.
		IdleTimeout: 120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sentStore := store.NewNotificationStore(db)

	var sched *reminder.Scheduler
	if cfg.SchedulerEnabled {
		sched = reminder.NewScheduler(
			store.NewTaskStore(db),
			store.NewUserStore(db),
			sentStore,
			newSender(cfg.Mail, logger),
			logger.With("component", "reminder"),
			reminder.Config{
				Interval:      cfg.ReminderInterval,
				Window:        cfg.ReminderWindow,
				SummaryHour:   cfg.SummaryHour,
				SummaryMinute: cfg.SummaryMinute,
				Location:      cfg.Location,
			},
		)
		sched.Start(ctx)
	} else {
		slog.Info("scheduler disabled")
	}

	// Background cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					slog.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					slog.Info("cleaned up expired sessions", "count", n)
				}
				if n, err := sentStore.CleanupSent(time.Now().Add(-sentRetention)); err != nil {
					slog.Error("cleanup sent notifications", "error", err)
				} else if n > 0 {
					slog.Info("cleaned up sent notifications", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("taskminder starting", "addr", ":"+cfg.Port, "base_url", cfg.BaseURL, "timezone", cfg.Location.String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	if sched != nil {
		sched.Stop()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func newSender(m config.Mail, logger *slog.Logger) email.Sender {
	switch m.Transport {
	case config.MailTransportPostmark:
		return email.NewPostmarkSender(m.PostmarkToken, m.From, email.WithMessageStream(m.PostmarkStream))
	case config.MailTransportSMTP:
		return email.NewSMTPSender(m.SMTPHost, m.SMTPPort, m.SMTPUsername, m.SMTPPassword, m.From)
	default:
		return email.NewLogSender(logger.With("component", "email"))
	}
}
