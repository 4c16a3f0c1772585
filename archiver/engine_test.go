package archiver_test

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/hashicorp/go-xwim/archiver"
	"github.com/hashicorp/go-xwim/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTree creates the directory "project" below dir with a few files, a
// sub directory and, where supported, a relative symlink.
func createTree(t *testing.T, dir string) string {
	t.Helper()
	root := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# project\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "debug.log"), []byte("noise\n"), 0644))
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink("README.md", filepath.Join(root, "link.md")))
	}
	return root
}

func TestRoundTrip(t *testing.T) {
	for ext, f := range format.CompoundExtensions() {
		if !archiver.CanCompress(f) {
			continue
		}
		t.Run(ext, func(t *testing.T) {
			tmp := t.TempDir()
			root := createTree(t, tmp)
			archive := filepath.Join(tmp, "out"+ext)
			ctx := context.Background()

			e := archiver.New(nil)
			require.NoError(t, e.Compress(ctx, []string{root}, archive))

			dst := filepath.Join(tmp, "extracted")
			require.NoError(t, e.Extract(ctx, archive, dst))

			data, err := os.ReadFile(filepath.Join(dst, "project", "src", "main.go"))
			require.NoError(t, err)
			assert.Equal(t, "package main\n", string(data))

			if runtime.GOOS != "windows" {
				link, err := os.Readlink(filepath.Join(dst, "project", "link.md"))
				require.NoError(t, err)
				assert.Equal(t, "README.md", link)
			}
		})
	}
}

func TestCompressMultipleInputs(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.txt")
	b := filepath.Join(tmp, "b")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	require.NoError(t, os.MkdirAll(b, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(b, "c.txt"), []byte("c"), 0644))

	var m *archiver.Metrics
	e := archiver.New(archiver.NewConfig(archiver.WithMetricsHook(func(_ context.Context, got *archiver.Metrics) {
		m = got
	})))
	archive := filepath.Join(tmp, "bundle.zip")
	require.NoError(t, e.Compress(context.Background(), []string{b, a}, archive))

	require.NotNil(t, m)
	assert.Equal(t, archiver.OperationCompress, m.Operation)
	assert.Equal(t, "zip", m.ArchiveType)
	assert.Equal(t, int64(2), m.PackedFiles)
	assert.Equal(t, int64(1), m.PackedDirs)
	assert.Positive(t, m.ArchiveSize)

	dst := filepath.Join(tmp, "out")
	require.NoError(t, e.Extract(context.Background(), archive, dst))
	assert.FileExists(t, filepath.Join(dst, "a.txt"))
	assert.FileExists(t, filepath.Join(dst, "b", "c.txt"))
	assert.Equal(t, int64(2), m.ExtractedFiles)
}

func TestCompressExistingArchive(t *testing.T) {
	tmp := t.TempDir()
	root := createTree(t, tmp)
	archive := filepath.Join(tmp, "out.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("keep"), 0644))

	err := archiver.New(nil).Compress(context.Background(), []string{root}, archive)
	require.ErrorIs(t, err, archiver.ErrArchiveExists)
	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	e := archiver.New(archiver.NewConfig(archiver.WithOverwrite(true)))
	require.NoError(t, e.Compress(context.Background(), []string{root}, archive))
	require.NoError(t, e.Extract(context.Background(), archive, filepath.Join(tmp, "x")))
}

func TestCompressSkipsOwnArchive(t *testing.T) {
	tmp := t.TempDir()
	root := createTree(t, tmp)
	archive := filepath.Join(root, "self.tar")

	e := archiver.New(nil)
	require.NoError(t, e.Compress(context.Background(), []string{root}, archive))
	dst := filepath.Join(tmp, "out")
	require.NoError(t, e.Extract(context.Background(), archive, dst))
	assert.NoFileExists(t, filepath.Join(dst, "project", "self.tar"))

	// no temporary files are left behind
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".self.tar.")
	}
}

func TestCompressExcludes(t *testing.T) {
	tmp := t.TempDir()
	root := createTree(t, tmp)
	archive := filepath.Join(tmp, "out.tar.zst")

	e := archiver.New(archiver.NewConfig(archiver.WithExcludes("*.log")))
	require.NoError(t, e.Compress(context.Background(), []string{root}, archive))

	dst := filepath.Join(tmp, "out")
	require.NoError(t, e.Extract(context.Background(), archive, dst))
	assert.FileExists(t, filepath.Join(dst, "project", "src", "main.go"))
	assert.NoFileExists(t, filepath.Join(dst, "project", "src", "debug.log"))
}

func TestExtractPatterns(t *testing.T) {
	tmp := t.TempDir()
	root := createTree(t, tmp)
	archive := filepath.Join(tmp, "out.tar.xz")
	require.NoError(t, archiver.New(nil).Compress(context.Background(), []string{root}, archive))

	var m *archiver.Metrics
	e := archiver.New(archiver.NewConfig(
		archiver.WithPatterns("project/src/*.go"),
		archiver.WithMetricsHook(func(_ context.Context, got *archiver.Metrics) { m = got }),
	))
	dst := filepath.Join(tmp, "out")
	require.NoError(t, e.Extract(context.Background(), archive, dst))
	assert.FileExists(t, filepath.Join(dst, "project", "src", "main.go"))
	assert.NoFileExists(t, filepath.Join(dst, "project", "README.md"))
	assert.Positive(t, m.PatternMismatches)
}

func TestUnsupportedFormats(t *testing.T) {
	tmp := t.TempDir()
	root := createTree(t, tmp)
	e := archiver.New(nil)
	ctx := context.Background()

	for _, name := range []string{"out.7z", "out.rar", "out.tar.lz", "out.tar.Z", "out.txt"} {
		err := e.Compress(ctx, []string{root}, filepath.Join(tmp, name))
		assert.ErrorIs(t, err, archiver.ErrUnsupportedFormat, name)
	}

	for _, name := range []string{"in.tar.lz", "in.tar.Z", "in.gz"} {
		p := filepath.Join(tmp, name)
		require.NoError(t, os.WriteFile(p, []byte("data"), 0644))
		err := e.Extract(ctx, p, filepath.Join(tmp, "dst"))
		assert.ErrorIs(t, err, archiver.ErrUnsupportedFormat, name)
	}

	assert.True(t, archiver.CanExtract(format.SevenZip))
	assert.True(t, archiver.CanExtract(format.Rar))
	assert.False(t, archiver.CanCompress(format.Rar))
}

func TestExtractInvalidHeader(t *testing.T) {
	tmp := t.TempDir()
	archive := filepath.Join(tmp, "fake.tar.gz")
	require.NoError(t, os.WriteFile(archive, []byte("this is not gzip"), 0644))

	err := archiver.New(nil).Extract(context.Background(), archive, filepath.Join(tmp, "out"))
	require.ErrorIs(t, err, archiver.ErrInvalidHeader)
}

// writeTar writes a tar archive with hdrs to path. Regular files get their
// name as content.
func writeTar(t *testing.T, path string, hdrs ...*tar.Header) {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, hdr := range hdrs {
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(hdr.Name))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(hdr.Name))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestExtractSecurity(t *testing.T) {
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name        string
		hdrs        []*tar.Header
		opts        []archiver.ConfigOption
		expectError bool
		expectFile  string
	}{
		{
			name:       "regular file",
			hdrs:       []*tar.Header{{Name: "dir/file.txt", Typeflag: tar.TypeReg, Mode: 0644, ModTime: mtime}},
			expectFile: "dir/file.txt",
		},
		{
			name:        "path traversal",
			hdrs:        []*tar.Header{{Name: "../evil.txt", Typeflag: tar.TypeReg, Mode: 0644}},
			expectError: true,
		},
		{
			name:        "absolute symlink",
			hdrs:        []*tar.Header{{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"}},
			expectError: true,
		},
		{
			name: "file through symlink",
			hdrs: []*tar.Header{
				{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "."},
				{Name: "link/file.txt", Typeflag: tar.TypeReg, Mode: 0644},
			},
			expectError: true,
		},
		{
			name:        "denied symlink",
			hdrs:        []*tar.Header{{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "file.txt"}},
			opts:        []archiver.ConfigOption{archiver.WithDenySymlinkExtraction(true)},
			expectError: true,
		},
		{
			name: "denied symlink skipped",
			hdrs: []*tar.Header{
				{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "file.txt"},
				{Name: "file.txt", Typeflag: tar.TypeReg, Mode: 0644},
			},
			opts:       []archiver.ConfigOption{archiver.WithDenySymlinkExtraction(true), archiver.WithContinueOnUnsupportedFiles(true)},
			expectFile: "file.txt",
		},
		{
			name: "continue on error",
			hdrs: []*tar.Header{
				{Name: "../evil.txt", Typeflag: tar.TypeReg, Mode: 0644},
				{Name: "good.txt", Typeflag: tar.TypeReg, Mode: 0644},
			},
			opts:       []archiver.ConfigOption{archiver.WithContinueOnError(true)},
			expectFile: "good.txt",
		},
		{
			name: "max files",
			hdrs: []*tar.Header{
				{Name: "a.txt", Typeflag: tar.TypeReg, Mode: 0644},
				{Name: "b.txt", Typeflag: tar.TypeReg, Mode: 0644},
			},
			opts:        []archiver.ConfigOption{archiver.WithMaxFiles(1)},
			expectError: true,
		},
		{
			name:        "max extraction size",
			hdrs:        []*tar.Header{{Name: "a-rather-long-name.txt", Typeflag: tar.TypeReg, Mode: 0644}},
			opts:        []archiver.ConfigOption{archiver.WithMaxExtractionSize(4)},
			expectError: true,
		},
		{
			name:        "max input size",
			hdrs:        []*tar.Header{{Name: "a.txt", Typeflag: tar.TypeReg, Mode: 0644}},
			opts:        []archiver.ConfigOption{archiver.WithMaxInputSize(512)},
			expectError: true,
		},
		{
			name:        "fifo",
			hdrs:        []*tar.Header{{Name: "fifo", Typeflag: tar.TypeFifo, Mode: 0644}},
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if runtime.GOOS == "windows" {
				t.Skip("symlinks require privileges on windows")
			}
			tmp := t.TempDir()
			archive := filepath.Join(tmp, "test.tar")
			writeTar(t, archive, test.hdrs...)
			dst := filepath.Join(tmp, "out")

			err := archiver.New(archiver.NewConfig(test.opts...)).Extract(context.Background(), archive, dst)
			if test.expectError {
				require.Error(t, err)
				assert.NoFileExists(t, filepath.Join(tmp, "evil.txt"))
				return
			}
			require.NoError(t, err)
			if test.expectFile != "" {
				assert.FileExists(t, filepath.Join(dst, filepath.FromSlash(test.expectFile)))
			}
		})
	}
}

func TestExtractKeepsModTime(t *testing.T) {
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	tmp := t.TempDir()
	archive := filepath.Join(tmp, "test.tar")
	writeTar(t, archive, &tar.Header{Name: "file.txt", Typeflag: tar.TypeReg, Mode: 0644, ModTime: mtime})

	dst := filepath.Join(tmp, "out")
	require.NoError(t, archiver.New(nil).Extract(context.Background(), archive, dst))
	stat, err := os.Stat(filepath.Join(dst, "file.txt"))
	require.NoError(t, err)
	assert.True(t, stat.ModTime().Equal(mtime), "mtime %s != %s", stat.ModTime(), mtime)
}

func TestExtractCanceled(t *testing.T) {
	tmp := t.TempDir()
	archive := filepath.Join(tmp, "test.tar")
	writeTar(t, archive, &tar.Header{Name: "file.txt", Typeflag: tar.TypeReg, Mode: 0644})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := archiver.New(nil).Extract(ctx, archive, filepath.Join(tmp, "out"))
	require.ErrorIs(t, err, context.Canceled)
}
