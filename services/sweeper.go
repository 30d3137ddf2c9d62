package services

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"catalog-service/repository"

	"go.uber.org/zap"
)

// sweepGracePeriod keeps freshly written files safe: an upload whose record
// insert has not committed yet must not be swept.
const sweepGracePeriod = time.Hour

// StartOrphanSweeper starts a background goroutine that periodically removes
// upload files no product references. Update and delete never clean up the
// files they orphan, so left to itself the content directory only grows; the
// sweeper is the opt-in answer to that. It stops when ctx is cancelled.
func StartOrphanSweeper(ctx context.Context, repo repository.ProductRepo, dir string, interval time.Duration) {
	if repo == nil || dir == "" {
		zap.L().Warn("orphan sweeper not started: missing dependencies")
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		zap.L().Info("orphan sweeper started",
			zap.String("dir", dir),
			zap.Duration("interval", interval),
		)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				zap.L().Info("orphan sweeper stopping")
				return
			case <-ticker.C:
				if removed, err := sweepOnce(ctx, repo, dir); err != nil {
					zap.L().Error("orphan sweep failed", zap.Error(err))
				} else if removed > 0 {
					zap.L().Info("orphan sweep removed files", zap.Int("count", removed))
				}
			}
		}
	}()
}

func sweepOnce(ctx context.Context, repo repository.ProductRepo, dir string) (int, error) {
	products, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]bool, len(products))
	for _, p := range products {
		if p.Image != nil {
			referenced[path.Base(*p.Image)] = true
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-sweepGracePeriod)
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			zap.L().Warn("failed to remove orphaned file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
