package testutil

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/plantcalc/internal/config"
)

// SetupPostgres поднимает PostgreSQL testcontainer и возвращает параметры
// подключения в виде config.DatabaseConfig. Миграции не применяются.
// В режиме -short тест пропускается. Cleanup выполняется автоматически.
func SetupPostgres(tb testing.TB) config.DatabaseConfig {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}
	u, err := url.Parse(dsn)
	if err != nil {
		tb.Fatalf("parsing connection string: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		tb.Fatalf("parsing mapped port %q: %v", u.Port(), err)
	}

	return config.DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     "test",
		Password: "test",
		DBName:   "testdb",
		SSLMode:  "disable",
	}
}
