package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"atelier/internal/orders"
	"atelier/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *SQLiteMirror {
	t.Helper()
	m, err := OpenSQLiteMirror(filepath.Join(t.TempDir(), "nested", "atelier.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSQLiteMirror_AppendAndList(t *testing.T) {
	m := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"Sweater", "Tote", "Loafers"} {
		err := m.Append(ctx, types.OrderSummary{
			ID:          "ORD-" + name,
			ProductName: name,
			Brand:       "Brand",
			Price:       100 * float64(i+1),
			Total:       orders.Quote(100 * float64(i+1)).Total,
			Status:      types.StatusPending,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := m.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Loafers", all[0].ProductName)
	assert.Equal(t, "Sweater", all[2].ProductName)
	assert.True(t, base.Add(2*time.Minute).Equal(all[0].Timestamp))
	assert.Equal(t, types.StatusPending, all[0].Status)

	limited, err := m.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteMirror_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atelier.db")
	ctx := context.Background()

	m, err := OpenSQLiteMirror(path)
	require.NoError(t, err)
	require.NoError(t, m.Append(ctx, types.OrderSummary{ID: "ORD-1", ProductName: "Scarf", Price: 450, Total: 567.94, Status: types.StatusPending, Timestamp: time.Now()}))
	require.NoError(t, m.Close())

	reopened, err := OpenSQLiteMirror(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-1", got[0].ID)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteMirror_IsOrderMirror(t *testing.T) {
	m := openTemp(t)
	svc := orders.NewService(orders.WithMirror(m))

	order, err := svc.CreateOrder(context.Background(),
		types.ProductCandidate{Name: "Park Tote", Brand: "The Row", Price: 1990},
		types.CustomerContext{Source: "test"})
	require.NoError(t, err)

	got, err := m.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, order.ID, got[0].ID)
	assert.Equal(t, order.Total.Total, got[0].Total)
}
