// Command sanitize-orders writes a copy of the persisted order
// snapshot with the customer password field removed. The live store
// is left untouched; this is an on-demand pass over a derived file.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"

	"storefront/internal/order"
	"storefront/pkg/kit"
)

func main() {
	in := flag.String("in", "data/orders.json", "order snapshot to read")
	out := flag.String("out", "data/orders.sanitized.json", "sanitized copy to write")
	flag.Parse()

	log := kit.NewLogger("sanitize-orders", os.Getenv("ENV"))
	defer func() { _ = log.Sync() }()

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal("read orders", zap.Error(err))
	}

	var orders []order.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		log.Fatal("decode orders", zap.Error(err))
	}

	for i := range orders {
		delete(orders[i].Customer, "password")
	}

	cleaned, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		log.Fatal("encode orders", zap.Error(err))
	}
	if err := os.WriteFile(*out, cleaned, 0o644); err != nil {
		log.Fatal("write sanitized orders", zap.Error(err))
	}

	log.Info("wrote sanitized orders",
		zap.String("path", *out), zap.Int("orders", len(orders)))
}
