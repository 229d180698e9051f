package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type record struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGateway(dir, zap.NewNop())
	ctx := context.Background()

	in := []record{{ID: "1", Price: 9.99}, {ID: "2", Price: 5}}
	require.NoError(t, g.Save(ctx, KindProducts, in))

	var out []record
	require.NoError(t, g.Load(ctx, KindProducts, &out))
	assert.Equal(t, in, out)
}

func TestLoadMissingLeavesEmpty(t *testing.T) {
	g := NewFileGateway(t.TempDir(), zap.NewNop())

	var out []record
	require.NoError(t, g.Load(context.Background(), KindOrders, &out))
	assert.Empty(t, out)
}

func TestLoadCorruptLeavesEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))

	g := NewFileGateway(dir, zap.NewNop())

	var out []record
	require.NoError(t, g.Load(context.Background(), KindProducts, &out))
	assert.Empty(t, out)
}

func TestSaveOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGateway(dir, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, KindProducts, []record{{ID: "1"}}))
	require.NoError(t, g.Save(ctx, KindProducts, []record{{ID: "2"}}))

	var out []record
	require.NoError(t, g.Load(ctx, KindProducts, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "products.json", entries[0].Name())
}

func TestKindsAreIndependent(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGateway(dir, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, KindProducts, []record{{ID: "p"}}))
	require.NoError(t, g.Save(ctx, KindOrders, []record{{ID: "o1"}, {ID: "o2"}}))

	var products, orders []record
	require.NoError(t, g.Load(ctx, KindProducts, &products))
	require.NoError(t, g.Load(ctx, KindOrders, &orders))

	assert.Len(t, products, 1)
	assert.Len(t, orders, 2)
}
