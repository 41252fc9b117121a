package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spacesedan/stockdigest/config"
)

// Options are the per-run flags. DryRun implies both skips but still writes
// the rendered digest to disk for inspection.
type Options struct {
	DryRun   bool
	NoEmail  bool
	NoSheet  bool
	DaysBack int
}

type Pipeline struct {
	settings *config.Settings
	feeds    *config.Feeds
	opts     Options
}

func New(settings *config.Settings, feeds *config.Feeds, opts Options) *Pipeline {
	if opts.DaysBack <= 0 {
		opts.DaysBack = settings.NewsDaysBack
	}
	return &Pipeline{settings: settings, feeds: feeds, opts: opts}
}

func (p *Pipeline) skipEmail() bool { return p.opts.DryRun || p.opts.NoEmail }
func (p *Pipeline) skipSheet() bool { return p.opts.DryRun || p.opts.NoSheet }

// archive saves a run's output JSON under output/<subdir>/ for debugging
// and history. Archive failures only lose the archive.
func (p *Pipeline) archive(data any, mode, subdir string) {
	dir := filepath.Join(p.settings.OutputDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("[Pipeline] could not create archive dir", slog.String("error", err.Error()))
		return
	}

	timestamp := time.Now().Format("20060102_1504")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", mode, timestamp))

	if s, ok := data.(string); ok {
		data = map[string]string{"analysis": s, "generated_at": timestamp}
	}

	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Warn("[Pipeline] could not marshal archive", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		slog.Warn("[Pipeline] could not write archive", slog.String("error", err.Error()))
		return
	}
	slog.Info("[Pipeline] output archived", slog.String("path", path))
}
