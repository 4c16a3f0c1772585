package archiver

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestSecurityCheck(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		opts        []ConfigOption
		prep        func(t *testing.T, dst string)
		expectError bool
	}{
		{
			name: "plain path",
			path: "a/b/c.txt",
		},
		{
			name:        "traversal",
			path:        "../evil.txt",
			expectError: true,
		},
		{
			name:        "nested traversal",
			path:        "a/../../evil.txt",
			expectError: true,
		},
		{
			name: "traversal that stays inside",
			path: "a/../b.txt",
		},
		{
			name:        "symlink in path",
			path:        "link/file.txt",
			prep:        symlinkTo(t.TempDir()),
			expectError: true,
		},
		{
			name: "symlink in path with traversal allowed",
			path: "link/file.txt",
			opts: []ConfigOption{WithInsecureTraverseSymlinks(true)},
			prep: symlinkTo(t.TempDir()),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.prep != nil && runtime.GOOS == "windows" {
				t.Skip("symlinks require privileges on windows")
			}
			dst := t.TempDir()
			if test.prep != nil {
				test.prep(t, dst)
			}
			err := securityCheck(NewTargetDisk(), dst, test.path, NewConfig(test.opts...))
			if test.expectError != (err != nil) {
				t.Errorf("securityCheck(%q) error = %v, expectError %v", test.path, err, test.expectError)
			}
		})
	}
}

// symlinkTo returns a prep function that creates dst/link pointing to target.
func symlinkTo(target string) func(t *testing.T, dst string) {
	return func(t *testing.T, dst string) {
		if err := os.Symlink(target, filepath.Join(dst, "link")); err != nil {
			t.Fatalf("failed to create symlink: %s", err)
		}
	}
}

func TestCreateSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	tests := []struct {
		name        string
		link        string
		target      string
		opts        []ConfigOption
		expectError bool
	}{
		{name: "relative target", link: "dir/link", target: "../file.txt"},
		{name: "absolute target", link: "link", target: "/etc/passwd", expectError: true},
		{name: "escaping target", link: "dir/link", target: "../../outside", expectError: true},
		{name: "denied", link: "link", target: "file.txt", opts: []ConfigOption{WithDenySymlinkExtraction(true)}, expectError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dst := t.TempDir()
			err := createSymlink(NewTargetDisk(), dst, test.link, test.target, NewConfig(test.opts...))
			if test.expectError != (err != nil) {
				t.Fatalf("createSymlink() error = %v, expectError %v", err, test.expectError)
			}
			if err != nil {
				return
			}
			got, err := os.Readlink(filepath.Join(dst, filepath.FromSlash(test.link)))
			if err != nil {
				t.Fatalf("Readlink() returned an error: %s", err)
			}
			if got != test.target {
				t.Errorf("Readlink() = %q, want %q", got, test.target)
			}
		})
	}
}

func TestCreateFile(t *testing.T) {
	dst := t.TempDir()
	cfg := NewConfig()
	td := NewTargetDisk()

	n, err := createFile(td, dst, "sub/dir/file.txt", strings.NewReader("hello"), 0640, -1, cfg)
	if err != nil {
		t.Fatalf("createFile() returned an error: %s", err)
	}
	if n != 5 {
		t.Errorf("createFile() wrote %d bytes, want 5", n)
	}

	// existing files are kept without overwrite
	if _, err := createFile(td, dst, "sub/dir/file.txt", strings.NewReader("again"), 0640, -1, cfg); err == nil {
		t.Errorf("createFile() on existing file succeeded without overwrite")
	}
	if _, err := createFile(td, dst, "sub/dir/file.txt", strings.NewReader("again"), 0640, -1, NewConfig(WithOverwrite(true))); err != nil {
		t.Errorf("createFile() with overwrite returned an error: %s", err)
	}

	// size limit
	if _, err := createFile(td, dst, "big.txt", strings.NewReader("0123456789"), 0640, 4, cfg); err == nil {
		t.Errorf("createFile() exceeded maxSize without error")
	}

	if _, err := createFile(td, dst, "", strings.NewReader(""), 0640, -1, cfg); err == nil {
		t.Errorf("createFile() without name succeeded")
	}
}
