package app

import (
	"context"
	"errors"
	"log"
	"lottery_backend/internal/config"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

func (s *App) Run() error {
	err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
	s.initServiceProvider()

	// Контекст жизни процесса: завершается по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := s.ServiceProvider.Router(ctx)

	// Фоновая финализация стартует вместе с сервером и
	// останавливается при завершении процесса
	sweep := s.ServiceProvider.Sweeper(ctx)
	sweep.Start(ctx)
	defer sweep.Stop()

	srv := &http.Server{
		Addr:    s.ServiceProvider.HTTPCfg().Address(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server at %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
