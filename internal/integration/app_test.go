package integration_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/screenpass/screenpass/internal/app"
)

type TestApp struct {
	App *app.Application
	DB  *pgxpool.Pool
	Cfg app.Config
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Separate pool for seeding and state assertions, so tests never reach
	// into the application's own connections.
	db, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		application.Close()
		return nil, err
	}

	return &TestApp{
		App: application,
		DB:  db,
		Cfg: cfg,
	}, nil
}

func (a *TestApp) Close() {
	a.DB.Close()
	a.App.Close()
}
