package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestClientAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	client := setupTestClient(t, ctx)

	beta, err := client.Insert(ctx, "stations", backend.Row{"name": "Beta", "status": "active"})
	require.NoError(t, err)
	_, err = client.Insert(ctx, "stations", backend.Row{"name": "Alpha", "status": "pending"})
	require.NoError(t, err)

	stations, err := backend.List[models.Station](ctx, client, backend.From("stations").OrderBy("name", false))
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "Alpha", stations[0].Name)
	assert.Equal(t, "Beta", stations[1].Name)
	assert.Equal(t, beta["id"], stations[1].ID)

	count, err := client.Count(ctx, "stations", backend.Eq("status", "active"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	inv, err := backend.InsertAs[models.FuelInventory](ctx, client, "fuel_inventory", backend.Row{
		"station_id":      beta["id"],
		"fuel_type":       "diesel",
		"current_stock":   decimal.RequireFromString("1500.250"),
		"capacity":        decimal.RequireFromString("10000"),
		"alert_threshold": decimal.RequireFromString("500"),
	})
	require.NoError(t, err)
	assert.True(t, inv.CurrentStock.Equal(decimal.RequireFromString("1500.25")))

	_, err = backend.One[models.Station](ctx, client, backend.From("stations").Where(backend.Eq("id", "00000000-0000-0000-0000-000000000000")))
	assert.True(t, backend.IsNotFound(err))

	_, err = client.Insert(ctx, "stations", backend.Row{"name": "Bad", "status": "closed"})
	require.Error(t, err)
	assert.Equal(t, "23514", backend.AsError(err).Code)

	n, err := client.Delete(ctx, "fuel_inventory", backend.Eq("id", inv.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func setupTestClient(t *testing.T, ctx context.Context) *Client {
	t.Helper()
	if os.Getenv("FUELDESK_TESTCONTAINERS") != "1" {
		t.Skip("FUELDESK_TESTCONTAINERS=1 is required for integration tests")
	}

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("fueldesk_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "migrations", "001_init.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewClient(pool)
}
