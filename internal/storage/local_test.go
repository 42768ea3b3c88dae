package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutGetRoundtrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("workbook bytes")
	meta := &Metadata{
		ContentType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		OriginalName: "he.xlsx",
		Series:       "HE",
		UploadedAt:   time.Now(),
	}
	require.NoError(t, s.Put(ctx, "price_update/HE/20260829_he.xlsx", content, meta))

	got, err := s.Get(ctx, "price_update/HE/20260829_he.xlsx")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// The metadata sidecar sits next to the content file.
	_, err = os.Stat(s.keyToPath("price_update/HE/20260829_he.xlsx") + ".meta")
	assert.NoError(t, err)
}

func TestLocalGetMissingKey(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "price_update/HE/nope.xlsx")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalKeyCannotEscapeBasePath(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	for _, key := range []string{
		"../outside.txt",
		"../../etc/passwd",
		"/rooted/key.xlsx",
		"a/../../b.txt",
	} {
		path := s.keyToPath(key)
		rel, err := filepath.Rel(base, path)
		require.NoError(t, err, key)
		assert.False(t, strings.HasPrefix(rel, ".."), "key %q resolved outside the base path", key)
	}
}
