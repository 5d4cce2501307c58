package client

import (
	"context"
	"database/sql"
	"lockwatch/pkg/logger"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// SetPostgres opens the connection to the monitored Postgres instance. The
// service only ever reads catalog views through it, so the pool is kept
// small.
func (c *Client) SetPostgres(log *logger.Logger, dsn string, connTimeout time.Duration) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open Postgres connection", "error", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping Postgres", "error", err)
	}

	log.Info("Successfully connected to Postgres")
	c.Postgres = db
}
