package catalog

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/storage"
)

// Publisher receives a broadcast event after every successful mutation.
type Publisher interface {
	Publish(event string, payload any)
}

// Store is the authoritative in-memory product collection, newest
// first. Every mutation persists a full snapshot and publishes an
// event inside the same critical section, so concurrent admin writes
// can never interleave a mutation with a stale snapshot or reorder
// events relative to the mutations they announce.
type Store struct {
	mu     sync.RWMutex
	items  []Product
	lastID int64

	gw     storage.Gateway
	events Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewStore(gw storage.Gateway, events Publisher, log *zap.Logger) *Store {
	return &Store{
		gw:     gw,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Load restores the persisted collection. Missing or unreadable
// snapshots leave the store empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gw.Load(ctx, storage.KindProducts, &s.items); err != nil {
		return err
	}
	for _, p := range s.items {
		if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	s.log.Info("catalog loaded", zap.Int("products", len(s.items)))
	return nil
}

// nextID derives ids from the wall clock, bumped past the last issued
// id so restarts and same-nanosecond calls cannot collide. Callers
// must hold mu.
func (s *Store) nextID() string {
	id := s.now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return Product{}, false
}

func (s *Store) Create(ctx context.Context, d Draft) (Product, error) {
	if strings.TrimSpace(d.Title) == "" {
		return Product{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:          s.nextID(),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Image:       d.Image,
		AddedAt:     s.now().UTC(),
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}

	prev := s.items
	s.items = append([]Product{p}, s.items...)

	if err := s.gw.Save(ctx, storage.KindProducts, s.items); err != nil {
		s.items = prev
		return Product{}, err
	}

	s.events.Publish(EventItemAdded, p)
	return p, nil
}

func (s *Store) Update(ctx context.Context, id string, patch Patch) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}

	updated := s.items[i]
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.Image != nil {
		updated.Image = *patch.Image
	}

	prev := s.items[i]
	s.items[i] = updated

	if err := s.gw.Save(ctx, storage.KindProducts, s.items); err != nil {
		s.items[i] = prev
		return Product{}, err
	}

	s.events.Publish(EventItemUpdated, updated)
	return updated, nil
}

// Delete removes the product and returns it so callers can echo the
// removed record.
func (s *Store) Delete(ctx context.Context, id string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}

	removed := s.items[i]
	prev := s.items
	next := make([]Product, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.items = next

	if err := s.gw.Save(ctx, storage.KindProducts, s.items); err != nil {
		s.items = prev
		return Product{}, err
	}

	s.events.Publish(EventItemDeleted, removed)
	return removed, nil
}

// index must be called with mu held.
func (s *Store) index(id string) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
