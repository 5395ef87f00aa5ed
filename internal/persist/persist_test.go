package persist

import (
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

func load(t *testing.T, src string) *table.Table {
	t.Helper()
	tb, err := loader.Load(strings.NewReader(src), "in.csv", loader.Options{})
	require.NoError(t, err)
	return tb
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	src := "name,note,score\nann,\"hello, world\",1.50\nbo,\"say \"\"hi\"\"\",2\n"
	require.NoError(t, WriteCSV(path, load(t, src)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(b))

	back, err := loader.LoadFile(path, loader.Options{})
	require.NoError(t, err)
	assert.True(t, load(t, src).Equal(back))
}

func TestWriteCSVOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, WriteCSV(path, load(t, "a\n1\n2\n3\n4\n")))
	require.NoError(t, WriteCSV(path, load(t, "a\n9\n")))

	back, err := loader.LoadFile(path, loader.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, back.NumRows())
}

func TestWriteCSVFailureIsWriteError(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected makes MkdirAll fail.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteCSV(filepath.Join(blocker, "sub", DefaultFileName), load(t, "a\n1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrite))
	var we *WriteError
	require.True(t, errors.As(err, &we))
	assert.Contains(t, we.Path, "blocker")
}

func TestEncodeMissingAsEmpty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Encode(&sb, load(t, "a,b\n1,NA\n")))
	assert.Equal(t, "a,b\n1,\n", sb.String())
}
