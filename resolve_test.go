package xwim_test

import (
	"errors"
	"testing"

	xwim "github.com/hashicorp/go-xwim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		req       *xwim.Request
		want      xwim.Intent
		expectErr error
	}{
		{
			name: "single file is compressed",
			req:  xwim.NewRequest(false, false, "", "notes.txt"),
			want: &xwim.CompressSingle{Input: "notes.txt"},
		},
		{
			name: "single archive is extracted",
			req:  xwim.NewRequest(false, false, "", "a.zip"),
			want: &xwim.Extract{Archives: []string{"a.zip"}},
		},
		{
			name: "archives with directory output are extracted",
			req:  xwim.NewRequest(false, false, "out", "b.tar.gz", "a.zip"),
			want: &xwim.Extract{Archives: []string{"a.zip", "b.tar.gz"}, Output: "out"},
		},
		{
			name: "files with archive output are bundled",
			req:  xwim.NewRequest(false, false, "bundle.zip", "a", "b"),
			want: &xwim.CompressMany{Inputs: []string{"a", "b"}, Output: "bundle.zip"},
		},
		{
			name: "archives with archive output are repackaged",
			req:  xwim.NewRequest(false, false, "out.tar.gz", "a.zip", "b.zip"),
			want: &xwim.CompressMany{Inputs: []string{"a.zip", "b.zip"}, Output: "out.tar.gz"},
		},
		{
			name: "single archive with archive output is repackaged",
			req:  xwim.NewRequest(false, false, "out.tar.gz", "a.zip"),
			want: &xwim.CompressSingle{Input: "a.zip", Output: "out.tar.gz"},
		},
		{
			name:      "files without output",
			req:       xwim.NewRequest(false, false, "", "a", "b"),
			expectErr: xwim.ErrCannotInferIntent,
		},
		{
			name:      "mixed inputs without output",
			req:       xwim.NewRequest(false, false, "", "a.zip", "b"),
			expectErr: xwim.ErrCannotInferIntent,
		},
		{
			name:      "files with directory output",
			req:       xwim.NewRequest(false, false, "out", "a", "b"),
			expectErr: xwim.ErrCannotInferIntent,
		},
		{
			name:      "single file with directory output",
			req:       xwim.NewRequest(false, false, "out", "a"),
			expectErr: xwim.ErrCannotInferIntent,
		},
		{
			name: "explicit compress of an archive",
			req:  xwim.NewRequest(true, false, "", "a.zip"),
			want: &xwim.CompressSingle{Input: "a.zip"},
		},
		{
			name: "explicit compress keeps unvalidated output",
			req:  xwim.NewRequest(true, false, "out.txt", "a"),
			want: &xwim.CompressSingle{Input: "a", Output: "out.txt"},
		},
		{
			name:      "explicit compress of many without output",
			req:       xwim.NewRequest(true, false, "", "a", "b"),
			expectErr: xwim.ErrAmbiguousOutput,
		},
		{
			name: "explicit compress of many",
			req:  xwim.NewRequest(true, false, "x.7z", "a", "b"),
			want: &xwim.CompressMany{Inputs: []string{"a", "b"}, Output: "x.7z"},
		},
		{
			name: "explicit extract with archive output",
			req:  xwim.NewRequest(false, true, "out.zip", "a.zip"),
			want: &xwim.Extract{Archives: []string{"a.zip"}, Output: "out.zip"},
		},
		{
			name:      "explicit extract of a file",
			req:       xwim.NewRequest(false, true, "", "a.zip", "notes.txt"),
			expectErr: xwim.ErrUnhandledFormat,
		},
		{
			name:      "conflicting flags",
			req:       xwim.NewRequest(true, true, "", "a"),
			expectErr: xwim.ErrConflictingAction,
		},
		{
			name:      "conflicting flags win over missing input",
			req:       xwim.NewRequest(true, true, ""),
			expectErr: xwim.ErrConflictingAction,
		},
		{
			name:      "no input",
			req:       xwim.NewRequest(false, false, "out.zip"),
			expectErr: xwim.ErrNoInput,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := xwim.Resolve(test.req, nil)
			if test.expectErr != nil {
				require.ErrorIs(t, err, test.expectErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestResolveUnhandledFormatPath(t *testing.T) {
	_, err := xwim.Resolve(xwim.NewRequest(false, true, "", "a.zip", "notes.txt"), nil)

	var ufe *xwim.UnhandledFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "notes.txt", ufe.Path)
	assert.Contains(t, err.Error(), "notes.txt")
}

// TestResolveTotal checks that every combination of flags and outputs
// yields either an intent or an error.
func TestResolveTotal(t *testing.T) {
	inputs := [][]string{{}, {"a"}, {"a.zip"}, {"a", "b"}, {"a.zip", "b.tar"}, {"a.zip", "b"}}
	outputs := []string{"", "out", "out.zip", "out.txt"}
	for _, compress := range []bool{false, true} {
		for _, extract := range []bool{false, true} {
			for _, in := range inputs {
				for _, out := range outputs {
					intent, err := xwim.Resolve(xwim.NewRequest(compress, extract, out, in...), nil)
					if (intent == nil) == (err == nil) {
						t.Errorf("Resolve(%v, %v, %q, %v) = %v, %v: want exactly one of intent and error", compress, extract, out, in, intent, err)
					}
				}
			}
		}
	}
}

func TestNewRequest(t *testing.T) {
	req := xwim.NewRequest(false, false, "", "b", "a", "./a", "b/", "c")
	assert.Equal(t, []string{"a", "b", "c"}, req.Inputs)
	assert.Equal(t, []string{"./a", "b/"}, req.Duplicates)
}

func TestKind(t *testing.T) {
	assert.Equal(t, xwim.KindCompressSingle, (&xwim.CompressSingle{}).Kind())
	assert.Equal(t, xwim.KindCompressMany, (&xwim.CompressMany{}).Kind())
	assert.Equal(t, xwim.KindExtract, (&xwim.Extract{}).Kind())
	assert.Equal(t, "extract", xwim.KindExtract.String())
}
