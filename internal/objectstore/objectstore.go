// Package objectstore define el contrato del object store binario usado para
// imágenes subidas (bucket "images").
package objectstore

import (
	"context"
	"io"
)

// Store es el contrato consumido por los resource hooks.
type Store interface {
	// Upload guarda el binario en bucket/path. Sobrescribe si existe.
	Upload(ctx context.Context, bucket, path string, data io.Reader) error

	// PublicURL resuelve la URL pública de bucket/path.
	// No verifica existencia: es una transformación de nombre, como en
	// cualquier CDN/object store. Devuelve "" si bucket/path es inválido.
	PublicURL(bucket, path string) string
}
