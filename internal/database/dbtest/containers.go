// Package dbtest starts throwaway postgres and redis containers for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartPostgres returns a migrated connection to a fresh postgres container.
func StartPostgres(t *testing.T) *gorm.DB {
	skipUnlessIntegration(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "quizzy",
			"POSTGRES_PASSWORD": "quizzy",
			"POSTGRES_DB":       "quizzy",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pg.Terminate(ctx))
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=quizzy password=quizzy dbname=quizzy sslmode=disable", host, port.Port())
	db, err := database.Open(dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.Migrate(db))
	t.Logf("postgres running at %s:%s", host, port.Port())
	return db
}

// Reset empties every table between tests sharing one container.
func Reset(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE user_answers, quiz_sessions, answers, questions, quiz, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}

// StartRedis returns the address of a fresh redis container.
func StartRedis(t *testing.T) string {
	skipUnlessIntegration(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, rc.Terminate(ctx))
	})

	host, err := rc.Host(ctx)
	require.NoError(t, err)
	port, err := rc.MappedPort(ctx, "6379")
	require.NoError(t, err)

	addr := fmt.Sprintf("%s:%s", host, port.Port())
	t.Logf("redis running at %s", addr)
	return addr
}
