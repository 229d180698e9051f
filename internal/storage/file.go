package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type FileGateway struct {
	dir string
	log *zap.Logger
}

func NewFileGateway(dir string, log *zap.Logger) *FileGateway {
	return &FileGateway{dir: dir, log: log}
}

func (g *FileGateway) path(kind string) string {
	return filepath.Join(g.dir, kind+".json")
}

func (g *FileGateway) Load(_ context.Context, kind string, v any) error {
	raw, err := os.ReadFile(g.path(kind))
	if err != nil {
		if !os.IsNotExist(err) {
			g.log.Warn("snapshot unreadable, starting empty",
				zap.String("kind", kind), zap.Error(err))
		}
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		g.log.Warn("snapshot corrupt, starting empty",
			zap.String("kind", kind), zap.Error(err))
		return nil
	}
	return nil
}

// Save writes to a temp file in the same directory and renames it over
// the snapshot, so a crash mid-write never leaves a truncated file.
func (g *FileGateway) Save(_ context.Context, kind string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(g.dir, kind+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s snapshot: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s snapshot: %w", kind, err)
	}

	if err := os.Rename(tmp.Name(), g.path(kind)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s snapshot: %w", kind, err)
	}
	return nil
}
