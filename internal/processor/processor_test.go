package processor

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/codesummary/internal/completion"
	"github.com/nguyentantai21042004/codesummary/internal/config"
	"github.com/nguyentantai21042004/codesummary/internal/export"
	"github.com/nguyentantai21042004/codesummary/internal/logger"
	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

type testEnv struct {
	cfg  *config.Config
	proc Processor
}

func newTestEnv(t *testing.T, formats ...string) testEnv {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.Input = filepath.Join(base, "inbox")
	cfg.Paths.Output = filepath.Join(base, "output")
	cfg.Paths.Archived = filepath.Join(base, "archived")
	cfg.Paths.Temp = filepath.Join(base, "tmp")
	if len(formats) > 0 {
		cfg.Export.Formats = formats
	}
	require.NoError(t, os.MkdirAll(cfg.Paths.Input, 0755))
	require.NoError(t, os.MkdirAll(cfg.Paths.Temp, 0755))

	client := completion.Func(func(ctx context.Context, prompt string) (string, error) {
		return "summary for unit", nil
	})
	sum := summarizer.New(client, logger.Discard(), summarizer.Options{})
	exp := export.New(export.Options{}, nil)

	proc, err := New(cfg, sum, exp, logger.Discard())
	require.NoError(t, err)
	return testEnv{cfg: cfg, proc: proc}
}

func writeZip(t *testing.T, path string, files map[string]string, order []string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestProcessArchive(t *testing.T) {
	env := newTestEnv(t)

	archive := filepath.Join(env.cfg.Paths.Input, "project.zip")
	writeZip(t, archive, map[string]string{
		"project/a.py":  "def a():\n    return 1\n",
		"project/b.txt": "notes",
		"project/":      "",
	}, []string{"project/", "project/a.py", "project/b.txt"})

	res, err := env.proc.Process(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, "project", res.JobName)
	require.Equal(t, 2, res.Batch.Len())
	assert.Equal(t, "project/a.py", res.Batch.Records[0].Name)
	assert.Equal(t, summarizer.StatusCompleted, res.Batch.Records[0].Status)
	assert.Equal(t, summarizer.StatusSkipped, res.Batch.Records[1].Status)

	require.Len(t, res.Outputs, 2)
	md, err := os.ReadFile(res.Outputs[export.FormatMarkdown])
	require.NoError(t, err)
	assert.Contains(t, string(md), "### project/a.py (Python)\n\nsummary for unit")
	assert.Equal(t, filepath.Join(env.cfg.Paths.Output, "project.html"), res.Outputs[export.FormatHTML])

	assert.NoFileExists(t, archive)
	assert.FileExists(t, filepath.Join(env.cfg.Paths.Archived, "project.zip"))

	leftovers, err := os.ReadDir(env.cfg.Paths.Temp)
	require.NoError(t, err)
	assert.Empty(t, leftovers, "extraction dir removed")
}

func TestProcessEmptyArchive(t *testing.T) {
	env := newTestEnv(t)

	archive := filepath.Join(env.cfg.Paths.Input, "empty.zip")
	writeZip(t, archive, nil, nil)

	res, err := env.proc.Process(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Batch.Len())

	html, err := os.ReadFile(res.Outputs[export.FormatHTML])
	require.NoError(t, err)
	assert.Equal(t, "<html><body></body></html>", string(html))
}

func TestProcessMalformedArchive(t *testing.T) {
	env := newTestEnv(t)

	archive := filepath.Join(env.cfg.Paths.Input, "broken.zip")
	require.NoError(t, os.WriteFile(archive, []byte("PK\x03\x04 definitely not a zip"), 0644))

	res, err := env.proc.Process(context.Background(), archive)
	assert.ErrorIs(t, err, ErrArchive)
	assert.Nil(t, res)

	_, statErr := os.Stat(env.cfg.Paths.Output)
	assert.True(t, os.IsNotExist(statErr), "no exports for a failed archive")
	assert.FileExists(t, archive, "failed archives stay in the inbox")
}

func TestProcessArchiveRejectsPathEscape(t *testing.T) {
	env := newTestEnv(t)

	archive := filepath.Join(env.cfg.Paths.Input, "evil.zip")
	writeZip(t, archive, map[string]string{"../../escape.py": "x = 1"}, []string{"../../escape.py"})

	_, err := env.proc.Process(context.Background(), archive)
	assert.ErrorIs(t, err, ErrArchive)
}

func TestProcessDirectory(t *testing.T) {
	env := newTestEnv(t, "md")

	dir := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "util.go"), []byte("package pkg"), 0644))

	res, err := env.proc.Process(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "src", res.JobName)
	require.Equal(t, 1, res.Batch.Len())
	assert.Equal(t, "pkg/util.go", res.Batch.Records[0].Name)
	assert.Len(t, res.Outputs, 1)
	assert.DirExists(t, dir, "directories are never moved")
}

func TestProcessUnsupportedInput(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "code.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := env.proc.Process(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestProcessMissingInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.proc.Process(context.Background(), filepath.Join(t.TempDir(), "nope.zip"))
	assert.Error(t, err)
}

func TestProcessSnippet(t *testing.T) {
	env := newTestEnv(t, "md", "markdown")

	res, err := env.proc.ProcessSnippet(context.Background(), "", "def f(): pass")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.JobName, "snippet-"))
	require.Equal(t, 1, res.Batch.Len())
	assert.Equal(t, "Python", string(res.Batch.Records[0].Language))
	assert.Len(t, res.Outputs, 1, "duplicate formats collapse")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Formats = []string{"md", "rtf"}

	_, err := New(cfg, nil, nil, logger.Discard())
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestEntryPath(t *testing.T) {
	dest := t.TempDir()

	tests := []struct {
		name    string
		entry   string
		wantErr bool
	}{
		{"plain", "a.py", false},
		{"nested", "src/pkg/a.go", false},
		{"inner dots resolve inside", "src/../a.go", false},
		{"parent escape", "../a.py", true},
		{"deep escape", "src/../../a.py", true},
		{"absolute", "/etc/passwd", true},
		{"backslash escape", `..\a.py`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := entryPath(dest, tt.entry)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArchive)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, dest))
		})
	}
}
