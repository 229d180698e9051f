package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/storage"
)

type pubRecorder struct {
	names    []string
	payloads []any
}

func (p *pubRecorder) Publish(event string, payload any) {
	p.names = append(p.names, event)
	p.payloads = append(p.payloads, payload)
}

func newTestLedger(t *testing.T) (*Ledger, *pubRecorder) {
	t.Helper()

	rec := &pubRecorder{}
	gw := storage.NewFileGateway(t.TempDir(), zap.NewNop())
	return NewLedger(gw, rec, zap.NewNop()), rec
}

func customer(email string) map[string]any {
	return map[string]any{"email": email, "name": "Test Customer"}
}

func TestCreateComputesTotal(t *testing.T) {
	l, rec := newTestLedger(t)

	o, err := l.Create(context.Background(), customer("a@x.com"), []LineItem{
		{ID: "1", Price: 10, Qty: 2},
		{ID: "2", Price: 5, Qty: 1},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 25.0, o.Total)
	assert.Equal(t, StatusReceived, o.Status)
	assert.NotEmpty(t, o.ID)
	assert.False(t, o.CreatedAt.IsZero())

	require.Equal(t, []string{EventOrderPlaced}, rec.names)
	assert.Equal(t, o, rec.payloads[0])
}

func TestCreateDefaultsQtyAndPrice(t *testing.T) {
	l, _ := newTestLedger(t)

	o, err := l.Create(context.Background(), customer("a@x.com"), []LineItem{
		{ID: "1", Price: 10},          // qty defaults to 1
		{ID: "2", Qty: 3},             // price defaults to 0
		{ID: "3", Price: 2.5, Qty: 2}, // 5
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 15.0, o.Total)
}

func TestCreateExplicitTotalWins(t *testing.T) {
	l, _ := newTestLedger(t)

	total := 99.0
	o, err := l.Create(context.Background(), customer("a@x.com"), []LineItem{
		{ID: "1", Price: 10, Qty: 2},
	}, &total)
	require.NoError(t, err)

	assert.Equal(t, 99.0, o.Total)
}

func TestCreateRejectsInvalidPayloads(t *testing.T) {
	l, rec := newTestLedger(t)
	items := []LineItem{{ID: "1", Price: 1, Qty: 1}}

	_, err := l.Create(context.Background(), nil, items, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = l.Create(context.Background(), map[string]any{"email": "  "}, items, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = l.Create(context.Background(), customer("a@x.com"), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	assert.Empty(t, rec.names, "rejected orders are never broadcast")
}

func TestCustomerRecordStoredVerbatim(t *testing.T) {
	l, _ := newTestLedger(t)

	c := map[string]any{"email": "a@x.com", "password": "hunter2"}
	o, err := l.Create(context.Background(), c, []LineItem{{ID: "1", Price: 1}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "hunter2", o.Customer["password"], "live path never redacts")
}

func TestFindByEmail(t *testing.T) {
	l, _ := newTestLedger(t)
	items := []LineItem{{ID: "1", Price: 1, Qty: 1}}

	first, err := l.Create(context.Background(), customer("a@x.com"), items, nil)
	require.NoError(t, err)
	_, err = l.Create(context.Background(), customer("b@x.com"), items, nil)
	require.NoError(t, err)
	second, err := l.Create(context.Background(), customer("A@X.com"), items, nil)
	require.NoError(t, err)

	got := l.FindByEmail("A@X.com")
	require.Len(t, got, 2, "match is case-insensitive")
	assert.Equal(t, second.ID, got[0].ID, "newest first")
	assert.Equal(t, first.ID, got[1].ID)

	assert.Len(t, l.FindByEmail("b@x.com"), 1)
	assert.Empty(t, l.FindByEmail("nobody@x.com"))
}

func TestAllNewestFirst(t *testing.T) {
	l, _ := newTestLedger(t)
	items := []LineItem{{ID: "1", Price: 1, Qty: 1}}

	var ids []string
	for range 3 {
		o, err := l.Create(context.Background(), customer("a@x.com"), items, nil)
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	all := l.All()
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)
}

func TestLoadRestoresLedger(t *testing.T) {
	dir := t.TempDir()
	gw := storage.NewFileGateway(dir, zap.NewNop())

	l := NewLedger(gw, &pubRecorder{}, zap.NewNop())
	_, err := l.Create(context.Background(), customer("a@x.com"), []LineItem{{ID: "1", Price: 2, Qty: 2}}, nil)
	require.NoError(t, err)

	restored := NewLedger(gw, &pubRecorder{}, zap.NewNop())
	require.NoError(t, restored.Load(context.Background()))

	all := restored.All()
	require.Len(t, all, 1)
	assert.Equal(t, 4.0, all[0].Total)
	assert.Equal(t, "a@x.com", all[0].CustomerEmail())
}
