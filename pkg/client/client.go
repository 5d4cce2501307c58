package client

import (
	"context"
	"database/sql"

	"go.mongodb.org/mongo-driver/mongo"
)

// Client aggregates the connections the service depends on: MongoDB for
// persisted findings and Postgres for the monitored lock catalog.
type Client struct {
	Mongo    *mongo.Client
	Postgres *sql.DB
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) GracefulShutdown() {
	if c.Mongo != nil {
		_ = c.Mongo.Disconnect(context.Background())
	}
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
}
