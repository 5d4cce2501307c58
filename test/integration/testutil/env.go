package testutil

import (
	"fmt"
	"os"
	"testing"
)

const DefaultHealthCheckTimeout = 3 * ConnectionTimeout

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	ServerPort   string
}

func NewTestEnv() *TestEnv {
	mongoURI := getEnv("TEST_MONGO_URI", DefaultMongoURI)
	dbName := getEnv("TEST_DB_NAME", DefaultDatabaseName)
	serverPort := getEnv("TEST_SERVER_PORT", "8080")
	serverURL := getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort))

	return &TestEnv{
		MongoURI:     mongoURI,
		DatabaseName: dbName,
		ServerURL:    serverURL,
		ServerPort:   serverPort,
	}
}

// Setup connects to the findings store, clears prior findings and waits
// for a running monitor to report healthy. Tests call this first; if no
// monitor is listening the suite fails fast.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanFindings(t)

	client := NewClient(e.ServerURL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanFindings(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
