package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

const sample = `city,temp,rain,note
Oslo,4.5,12,cold
Lima,19,0,<b>dry</b>
Oslo,5.5,10,cold
Cairo,30,1,hot
`

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tb, err := loader.Load(strings.NewReader(sample), "weather.csv", loader.Options{})
	require.NoError(t, err)
	return tb
}

func TestDefaultsOrder(t *testing.T) {
	rs := Defaults()
	require.Len(t, rs, 2)
	assert.Equal(t, "Profile", rs[0].Name())
	assert.Equal(t, "Overview", rs[1].Name())
}

func TestProfileReporterWritesHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := NewProfileReporter().Generate(context.Background(), sampleTable(t), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProfileFileName), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(b)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Profile report")
	assert.Contains(t, html, "weather.csv")
	assert.Contains(t, html, "Correlations")
	assert.Contains(t, html, "temp ~ rain")
	assert.Contains(t, html, "Oslo (2)")
	// Cell text is escaped.
	assert.Contains(t, html, "&lt;b&gt;dry&lt;/b&gt;")
	assert.NotContains(t, html, "<b>dry</b>")
}

func TestOverviewReporterWritesHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := NewOverviewReporter().Generate(context.Background(), sampleTable(t), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, OverviewFileName), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(b)
	assert.Contains(t, html, "4 rows &times; 4 columns")
	assert.Contains(t, html, "<th>city</th>")
	assert.Contains(t, html, "Cairo")
	assert.Contains(t, html, "Distributions")
	assert.Contains(t, html, ">numeric<")
}

func TestReporterDoesNotMutateInput(t *testing.T) {
	tb := sampleTable(t)
	before := tb.Clone()
	for _, r := range Defaults() {
		_, err := r.Generate(context.Background(), tb, t.TempDir())
		require.NoError(t, err)
	}
	assert.True(t, before.Equal(tb))
}

func TestGenerateFailureIsReportError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewOverviewReporter().Generate(context.Background(), sampleTable(t), filepath.Join(blocker, "out"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReport))
	var re *ReportError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Overview", re.Reporter)
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	_, err := NewProfileReporter().Generate(ctx, sampleTable(t), dir)
	require.ErrorIs(t, err, ErrReport)
	require.ErrorIs(t, err, context.Canceled)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
