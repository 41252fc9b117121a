package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/stockdigest/config"
	"github.com/spacesedan/stockdigest/internal/models"
)

func TestNewDefaultsDaysBack(t *testing.T) {
	settings := &config.Settings{NewsDaysBack: 3}

	p := New(settings, &config.Feeds{}, Options{})
	assert.Equal(t, 3, p.opts.DaysBack)

	p = New(settings, &config.Feeds{}, Options{DaysBack: 7})
	assert.Equal(t, 7, p.opts.DaysBack)
}

func TestSkipFlags(t *testing.T) {
	settings := &config.Settings{NewsDaysBack: 1}

	p := New(settings, &config.Feeds{}, Options{DryRun: true})
	assert.True(t, p.skipEmail())
	assert.True(t, p.skipSheet())

	p = New(settings, &config.Feeds{}, Options{NoEmail: true})
	assert.True(t, p.skipEmail())
	assert.False(t, p.skipSheet())

	p = New(settings, &config.Feeds{}, Options{NoSheet: true})
	assert.False(t, p.skipEmail())
	assert.True(t, p.skipSheet())
}

func TestArchiveWritesResults(t *testing.T) {
	dir := t.TempDir()
	p := New(&config.Settings{NewsDaysBack: 1, OutputDir: dir}, &config.Feeds{}, Options{})

	results := []models.AnalysisResult{{Ticker: "INFY", Priority: models.PriorityLow}}
	p.archive(results, "daily", "daily")

	files, err := filepath.Glob(filepath.Join(dir, "daily", "daily_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	blob, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var decoded []models.AnalysisResult
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, "INFY", decoded[0].Ticker)
}

func TestArchiveWrapsStringOutput(t *testing.T) {
	dir := t.TempDir()
	p := New(&config.Settings{NewsDaysBack: 1, OutputDir: dir}, &config.Feeds{}, Options{})

	p.archive("weekly review text", "weekly", "weekly")

	files, err := filepath.Glob(filepath.Join(dir, "weekly", "weekly_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	blob, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, "weekly review text", decoded["analysis"])
	assert.NotEmpty(t, decoded["generated_at"])
}
