package testutil

import (
	"context"
	"net"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/nkiryanov/movierater/internal/db"
)

const postgresImage = "postgres:17-alpine"

// Free TCP port on loopback, may be taken by someone else after return
func RandomPort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close() // nolint:errcheck

	return ln.Addr().(*net.TCPAddr).Port, nil
}

type PostgresContainer struct {
	Pool      *pgxpool.Pool
	DSN       string
	Terminate func()
}

// Start postgres container with applied migrations
// Test fails (not skipped) when docker is not available
func StartPostgresContainer(t *testing.T) PostgresContainer {
	t.Helper()

	if out, err := exec.Command("docker", "info", "--format", "{{.ServerVersion}}").CombinedOutput(); err != nil {
		t.Fatalf("docker not available or not running. Err: %s", out)
	}

	container, err := postgres.Run(t.Context(),
		postgresImage,
		postgres.WithDatabase("movierater-test"),
		postgres.WithUsername("movierater"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "postgres container should start")

	dsn, err := container.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err, "postgres container should report its DSN")
	t.Logf("postgres started, DSN=%s", dsn)

	pool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "schema should be migrated")

	return PostgresContainer{
		Pool: pool,
		DSN:  dsn,
		Terminate: func() {
			pool.Close()
			testcontainers.CleanupContainer(t, container)
		},
	}
}

type beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// Run testFunc inside transaction rolled back at the end, db stays unchanged
func WithTx(conn beginner, t *testing.T, testFunc func(tx pgx.Tx)) {
	t.Helper()

	tx, err := conn.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		require.NoError(t, tx.Rollback(context.Background()))
	}()

	testFunc(tx)
}
