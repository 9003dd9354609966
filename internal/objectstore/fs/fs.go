// Package fs implementa objectstore.Store sobre disco local.
// Los archivos quedan bajo root/<bucket>/<path> y se sirven por HTTP desde
// BaseURL (ver la ruta /storage del router).
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nusarupa/nusarupa/internal/objectstore"
)

type Store struct {
	root    string
	baseURL string
}

// New crea el store. baseURL es el prefijo público (ej "http://localhost:8080/storage").
func New(root, baseURL string) *Store {
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Root expone el directorio raíz (para montar el file server HTTP).
func (s *Store) Root() string { return s.root }

func (s *Store) Upload(ctx context.Context, bucket, objPath string, data io.Reader) error {
	clean, err := sanitize(bucket, objPath)
	if err != nil {
		return err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("objectstore: read upload: %w", err)
	}
	return writeObject(filepath.Join(s.root, filepath.FromSlash(clean)), b)
}

// writeObject escribe el objeto completo vía un temp en el mismo directorio
// más un rename final. El file server de /storage nunca ve un upload a
// medias, y re-subir el mismo path reemplaza el objeto entero o nada.
func writeObject(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("objectstore: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("objectstore: temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("objectstore: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("objectstore: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("objectstore: close temp: %w", err)
	}
	_ = os.Chmod(tmpPath, 0o644)

	// En Windows el rename puede fallar si el destino existe o está abierto.
	// Remover y reintentar cubre la re-subida del mismo objeto sin destruir
	// lo viejo cuando el primer rename hubiera funcionado.
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(dst)
		if err2 := os.Rename(tmpPath, dst); err2 != nil {
			return fmt.Errorf("objectstore: rename %s: %w", dst, err2)
		}
	}
	return nil
}

func (s *Store) PublicURL(bucket, objPath string) string {
	clean, err := sanitize(bucket, objPath)
	if err != nil {
		// Un path que Upload rechazaría no tiene URL: nunca inventar una.
		return ""
	}
	return s.baseURL + "/" + clean
}

// sanitize valida bucket/path y rechaza traversal.
func sanitize(bucket, objPath string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, "/\\") {
		return "", fmt.Errorf("objectstore: bucket inválido %q", bucket)
	}
	joined := path.Join(bucket, objPath)
	if joined == bucket || strings.HasPrefix(joined, "..") || strings.Contains(joined, "../") {
		return "", fmt.Errorf("objectstore: path inválido %q", objPath)
	}
	return joined, nil
}

var _ objectstore.Store = (*Store)(nil)
