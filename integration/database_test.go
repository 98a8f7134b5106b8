//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPolltrendWithMySQL tests the polltrend CLI with a MySQL backend.
func TestPolltrendWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "polltrend",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/polltrend?parseTime=true", host, port.Port())

	runBackendSuite(t, "mysql", connStr)
}

// TestPolltrendWithPostgres tests the polltrend CLI with a PostgreSQL backend.
func TestPolltrendWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	runBackendSuite(t, "postgresql", connStr)
}

// runBackendSuite exercises cache, run tracking and aggregation against one backend.
func runBackendSuite(t *testing.T, backend, connStr string) {
	// Set environment variables
	_ = os.Setenv("POLLTREND_CACHE_BACKEND", backend)
	_ = os.Setenv("POLLTREND_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("POLLTREND_RUNS_BACKEND", backend)
	_ = os.Setenv("POLLTREND_RUNS_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("POLLTREND_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("POLLTREND_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("POLLTREND_RUNS_BACKEND") }()
	defer func() { _ = os.Unsetenv("POLLTREND_RUNS_DB_CONNECT") }()

	input := writeFixturePolls(t)

	// Run polltrend cache clear
	err := runPolltrendCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run polltrend runs clear
	err = runPolltrendCommand(t, "runs", "clear")
	require.NoError(t, err)

	// Run an aggregation from the fixture, tracked in the run store
	err = runPolltrendCommand(t, "trends", "--input", input)
	require.NoError(t, err)

	// Run polltrend cache status
	err = runPolltrendCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run polltrend runs status
	err = runPolltrendCommand(t, "runs", "status")
	require.NoError(t, err)
}

func runPolltrendCommand(t *testing.T, args ...string) error {
	polltrendPath := getPolltrendBinary()
	cmd := exec.Command(polltrendPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
