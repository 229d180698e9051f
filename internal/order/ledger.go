// Package order holds the append-only purchase ledger. Orders are
// immutable once placed and kept newest-first.
package order

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/storage"
)

const (
	StatusReceived = "received"

	EventOrderPlaced = "order-placed"
)

var ErrInvalidOrder = errors.New("invalid order payload")

type LineItem struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Order records a completed purchase. Customer is free-form: the
// storefront submits whatever it collected, email included, and the
// record is stored verbatim. Stripping sensitive fields is an offline
// pass over a derived copy (cmd/sanitize-orders), never the live path.
type Order struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Customer  map[string]any `json:"customer"`
	Items     []LineItem     `json:"items"`
	Total     float64        `json:"total"`
	Status    string         `json:"status"`
}

func (o Order) CustomerEmail() string {
	email, _ := o.Customer["email"].(string)
	return email
}

type Publisher interface {
	Publish(event string, payload any)
}

type Ledger struct {
	mu     sync.RWMutex
	orders []Order
	lastID int64

	gw     storage.Gateway
	events Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewLedger(gw storage.Gateway, events Publisher, log *zap.Logger) *Ledger {
	return &Ledger{
		gw:     gw,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.gw.Load(ctx, storage.KindOrders, &l.orders); err != nil {
		return err
	}
	for _, o := range l.orders {
		if n, err := strconv.ParseInt(o.ID, 10, 64); err == nil && n > l.lastID {
			l.lastID = n
		}
	}
	l.log.Info("order ledger loaded", zap.Int("orders", len(l.orders)))
	return nil
}

// Create validates the payload, prepends the order, persists the
// ledger and broadcasts it. A nil total means "compute from items";
// missing qty counts as 1 and missing price as 0, matching what the
// storefront cart sends.
func (l *Ledger) Create(ctx context.Context, customer map[string]any, items []LineItem, total *float64) (Order, error) {
	email, _ := customer["email"].(string)
	if strings.TrimSpace(email) == "" || len(items) == 0 {
		return Order{}, ErrInvalidOrder
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	o := Order{
		ID:        l.nextID(),
		CreatedAt: l.now().UTC(),
		Customer:  customer,
		Items:     items,
		Total:     computeTotal(items),
		Status:    StatusReceived,
	}
	if total != nil {
		o.Total = *total
	}

	prev := l.orders
	l.orders = append([]Order{o}, l.orders...)

	if err := l.gw.Save(ctx, storage.KindOrders, l.orders); err != nil {
		l.orders = prev
		return Order{}, err
	}

	l.events.Publish(EventOrderPlaced, o)
	return o, nil
}

// FindByEmail matches the customer email case-insensitively and
// returns the orders newest-first.
func (l *Ledger) FindByEmail(email string) []Order {
	want := strings.ToLower(email)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Order, 0, 4)
	for _, o := range l.orders {
		if strings.ToLower(o.CustomerEmail()) == want {
			out = append(out, o)
		}
	}
	return out
}

func (l *Ledger) All() []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Order, len(l.orders))
	copy(out, l.orders)
	return out
}

func (l *Ledger) nextID() string {
	id := l.now().UnixNano()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return strconv.FormatInt(id, 10)
}

func computeTotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		qty := it.Qty
		if qty == 0 {
			qty = 1
		}
		total += it.Price * float64(qty)
	}
	return total
}
