package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/coursetrack/coursetrack-go/internal/config"
	"github.com/coursetrack/coursetrack-go/internal/handler"
	"github.com/coursetrack/coursetrack-go/internal/mailer"
	"github.com/coursetrack/coursetrack-go/internal/middleware"
	"github.com/coursetrack/coursetrack-go/internal/repository"
	"github.com/coursetrack/coursetrack-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		slog.Error("database initialization failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var m mailer.Mailer
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		slog.Warn("SMTP_HOST not set, reset links will only be logged")
		m = mailer.LogMailer{}
	}

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, m, cfg.JWTSecret, cfg.SessionExpiry, cfg.ResetExpiry, cfg.AppBaseURL)
	authHandler := handler.NewAuthHandler(authService)

	courseRepo := repository.NewCourseRepository(db)
	courseService := service.NewCourseService(courseRepo)
	courseHandler := handler.NewCourseHandler(courseService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)
	r.Post("/forgot-password", authHandler.HandleForgotPassword)
	r.Post("/reset-password", authHandler.HandleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/user/{id}", authHandler.HandleGetUser)

		r.Post("/courses", courseHandler.HandleCreate)
		r.Get("/courses", courseHandler.HandleList)
		r.Put("/courses/{id}", courseHandler.HandleUpdate)
		r.Delete("/courses/{id}", courseHandler.HandleDelete)
		r.Post("/courses/check-duplicate", courseHandler.HandleCheckDuplicate)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
