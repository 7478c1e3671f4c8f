package site

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopfront/provisioner/api"
)

// Subdirectories created inside every tenant site directory.
const (
	CustomPagesDir = "custom_pages"
	UploadsDir     = "uploads"
)

// Allocator claims per-tenant filesystem namespaces under a sites root.
// Directory creation is the atomic claim point: two concurrent requests
// for the same address cannot both succeed.
type Allocator struct {
	root string
	log  *slog.Logger
}

// NewAllocator creates an allocator rooted at the given sites directory.
func NewAllocator(root string, log *slog.Logger) *Allocator {
	return &Allocator{root: root, log: log}
}

// SiteDir returns the directory the identity maps to.
func (a *Allocator) SiteDir(id Identity) string {
	return id.SiteDir(a.root)
}

// Allocate claims the tenant directory for the identity and creates the
// custom-pages and uploads areas inside it.
//
// If the directory already exists, whether observed by the pre-check or
// reported by the creation call losing a race, Allocate returns
// api.DuplicateSiteError without mutating anything. Any other OS-level
// failure is propagated.
func (a *Allocator) Allocate(id Identity) error {
	dir := a.SiteDir(id)
	a.log.Debug("Allocating site directory", slog.String("dir", dir))

	if _, err := os.Stat(dir); err == nil {
		a.log.Warn("Site already exists", slog.String("address", id.Address))
		return &api.DuplicateSiteError{Address: id.Address}
	}

	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			a.log.Warn("Lost directory creation race", slog.String("address", id.Address))
			return &api.DuplicateSiteError{Address: id.Address}
		}
		return fmt.Errorf("failed to create site directory: %w", err)
	}

	for _, sub := range []string{CustomPagesDir, UploadsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	return nil
}

// Release removes the tenant directory and everything beneath it. The
// orchestrator calls it to roll back a claim after a fatal step failure.
func (a *Allocator) Release(id Identity) error {
	dir := a.SiteDir(id)
	a.log.Info("Releasing site directory", slog.String("dir", dir))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove site directory: %w", err)
	}
	return nil
}
