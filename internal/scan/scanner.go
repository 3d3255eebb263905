// Package scan adds every series folder under a library root to the catalog.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/tvkeep/internal/library"
	"github.com/vmunix/tvkeep/internal/series"
)

// DefaultConcurrency bounds concurrent folder adds when Config leaves it unset.
const DefaultConcurrency = 4

// Adder adds one folder to the catalog. *series.Reconciler implements it.
type Adder interface {
	AddFromPath(ctx context.Context, path string, qualityProfileID int64) (*library.Series, error)
}

// Outcome classifies what happened to one folder.
type Outcome int

const (
	OutcomeAdded     Outcome = iota // New catalog entry
	OutcomeExisting                 // Already cataloged
	OutcomeUnmatched                // No provider series for the folder name
	OutcomeFailed                   // Provider or storage fault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeExisting:
		return "existing"
	case OutcomeUnmatched:
		return "unmatched"
	default:
		return "failed"
	}
}

// Result is the outcome for one folder.
type Result struct {
	Path    string
	Outcome Outcome
	Series  *library.Series // Set when Outcome is OutcomeAdded
	Err     error           // Set when Outcome is OutcomeFailed
}

// Config for a scan.
type Config struct {
	Root             string
	QualityProfileID int64
	Concurrency      int
}

// Scanner adds the immediate subfolders of a library root.
type Scanner struct {
	adder  Adder
	config Config
	logger *slog.Logger
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(adder Adder, cfg Config, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Scanner{
		adder:  adder,
		config: cfg,
		logger: logger.With("component", "scan"),
	}
}

// Folders returns the root's visible subdirectories in name order.
func (s *Scanner) Folders() ([]string, error) {
	if s.config.Root == "" {
		return nil, errors.New("scan: no library root configured")
	}
	entries, err := os.ReadDir(s.config.Root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.config.Root, err)
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		folders = append(folders, filepath.Join(s.config.Root, e.Name()))
	}
	slices.Sort(folders)
	return folders, nil
}

// Run adds every folder, at most Concurrency at a time. A failing folder
// does not stop the scan; its error is reported in its Result. Results are
// in folder order. Run returns an error only if the root cannot be read or
// ctx is canceled, in which case folders not yet started are Failed.
func (s *Scanner) Run(ctx context.Context) ([]Result, error) {
	folders, err := s.Folders()
	if err != nil {
		return nil, err
	}

	s.logger.Info("scan started", "root", s.config.Root, "folders", len(folders))

	results := make([]Result, len(folders))
	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for i, path := range folders {
		g.Go(func() error {
			results[i] = s.addOne(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	counts := Summarize(results)
	s.logger.Info("scan finished",
		"root", s.config.Root,
		"added", counts[OutcomeAdded],
		"existing", counts[OutcomeExisting],
		"unmatched", counts[OutcomeUnmatched],
		"failed", counts[OutcomeFailed])

	return results, ctx.Err()
}

func (s *Scanner) addOne(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: path, Outcome: OutcomeFailed, Err: err}
	}

	added, err := s.adder.AddFromPath(ctx, path, s.config.QualityProfileID)
	switch {
	case err == nil:
		return Result{Path: path, Outcome: OutcomeAdded, Series: added}
	case errors.Is(err, series.ErrDuplicate):
		return Result{Path: path, Outcome: OutcomeExisting}
	case errors.Is(err, series.ErrNotFound):
		s.logger.Debug("no match for folder", "path", path)
		return Result{Path: path, Outcome: OutcomeUnmatched}
	default:
		s.logger.Warn("failed to add folder", "path", path, "error", err)
		return Result{Path: path, Outcome: OutcomeFailed, Err: err}
	}
}

// Summarize counts results by outcome.
func Summarize(results []Result) map[Outcome]int {
	counts := make(map[Outcome]int, 4)
	for _, r := range results {
		counts[r.Outcome]++
	}
	return counts
}
