// Package storage persists the server's collections as full JSON
// snapshots, either on the local filesystem or in a Postgres table.
package storage

import "context"

const (
	KindProducts = "products"
	KindOrders   = "orders"
)

// Gateway loads and saves whole collections. Load leaves v untouched
// when no snapshot exists or the stored one cannot be decoded, so a
// fresh or corrupt store degrades to an empty collection instead of
// failing startup. Save overwrites the previous snapshot.
type Gateway interface {
	Load(ctx context.Context, kind string, v any) error
	Save(ctx context.Context, kind string, v any) error
}
