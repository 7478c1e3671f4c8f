// Package routing publishes the per-tenant reverse-proxy config
// fragment. The fragment is derived from a shared skeleton file by
// replacing a fixed set of placeholder lines with tenant-specific
// values; the consuming router process hot-reloads on file creation.
package routing

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Rule replaces the first line matching Pattern with Line.
type Rule struct {
	Pattern *regexp.Regexp
	Line    string
}

// Publisher derives routing fragments from a skeleton template.
type Publisher struct {
	skeletonPath string
	log          *slog.Logger
}

// NewPublisher creates a publisher for the given skeleton file.
func NewPublisher(skeletonPath string, log *slog.Logger) *Publisher {
	return &Publisher{skeletonPath: skeletonPath, log: log}
}

// Publish writes the tenant fragment at destPath: the skeleton content
// with each rule applied in order, carrying over the skeleton's
// permission bits. The transform is in-memory and the write is
// temp-then-rename, so the destination never holds a partial fragment.
// Output is deterministic for a given skeleton and rule set.
func (p *Publisher) Publish(destPath string, rules []Rule) error {
	info, err := os.Stat(p.skeletonPath)
	if err != nil {
		return fmt.Errorf("failed to stat routing skeleton: %w", err)
	}

	raw, err := os.ReadFile(p.skeletonPath)
	if err != nil {
		return fmt.Errorf("failed to read routing skeleton: %w", err)
	}

	lines := strings.Split(string(raw), "\n")
	for _, rule := range rules {
		applyFirst(lines, rule)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".routing-*")
	if err != nil {
		return fmt.Errorf("failed to create temp fragment: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(strings.Join(lines, "\n")); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write fragment: %w", err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to carry over skeleton permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close fragment: %w", err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return fmt.Errorf("failed to move fragment into place: %w", err)
	}

	p.log.Debug("Published routing fragment", slog.String("path", destPath))
	return nil
}

func applyFirst(lines []string, rule Rule) {
	for i, line := range lines {
		if rule.Pattern.MatchString(line) {
			lines[i] = rule.Line
			return
		}
	}
}
