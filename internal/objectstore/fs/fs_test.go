package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/objectstore/fs"
)

func TestUploadAndPublicURL(t *testing.T) {
	root := t.TempDir()
	s := fs.New(root, "http://localhost:8080/storage/")

	err := s.Upload(context.Background(), "images", "2026/08/batik.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(root, "images", "2026", "08", "batik.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	assert.Equal(t,
		"http://localhost:8080/storage/images/2026/08/batik.png",
		s.PublicURL("images", "2026/08/batik.png"))
}

func TestUploadRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	s := fs.New(root, "http://localhost:8080/storage")
	ctx := context.Background()

	err := s.Upload(ctx, "images", "../../etc/passwd", strings.NewReader("x"))
	assert.Error(t, err)

	err = s.Upload(ctx, "images/..", "f.png", strings.NewReader("x"))
	assert.Error(t, err)

	err = s.Upload(ctx, "", "f.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestPublicURLInvalidPathIsEmpty(t *testing.T) {
	s := fs.New(t.TempDir(), "http://localhost:8080/storage")

	// Un path que Upload rechaza no debe producir una URL apuntando a nada.
	assert.Empty(t, s.PublicURL("images", "../../etc/passwd"))
	assert.Empty(t, s.PublicURL("images/sub", "f.png"))
	assert.Empty(t, s.PublicURL("", "f.png"))
}

func TestUploadOverwrites(t *testing.T) {
	root := t.TempDir()
	s := fs.New(root, "http://localhost:8080/storage")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "images", "a.png", strings.NewReader("v1")))
	require.NoError(t, s.Upload(ctx, "images", "a.png", strings.NewReader("v2")))

	b, err := os.ReadFile(filepath.Join(root, "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))

	// La escritura vía temp+rename no deja archivos intermedios en el bucket.
	entries, err := os.ReadDir(filepath.Join(root, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}
