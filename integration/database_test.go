//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestStagingWithMySQL stages the fixtures in MySQL and reports from there.
func TestStagingWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "taskrecon",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	env := map[string]string{
		"TASKRECON_SOURCE_BACKEND":    "mysql",
		"TASKRECON_SOURCE_DB_CONNECT": fmt.Sprintf("root:secret123@tcp(%s:%s)/taskrecon", host, port.Port()),
	}
	assertMatchesFileReport(t, stageAndReport(t, env))
}

// TestStagingWithPostgres stages the fixtures in PostgreSQL and reports from there.
func TestStagingWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	env := map[string]string{
		"TASKRECON_SOURCE_BACKEND":    "postgresql",
		"TASKRECON_SOURCE_DB_CONNECT": fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port()),
	}
	assertMatchesFileReport(t, stageAndReport(t, env))
}

func assertMatchesFileReport(t *testing.T, fromDB []schema.ReportRecord) {
	t.Helper()
	out, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, decodeReport(t, out), fromDB)
}
