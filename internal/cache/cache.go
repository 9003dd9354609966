// Package cache provee una abstracción de cache con soporte multi-backend.
//
// Soporta:
//   - Memory (in-process, para desarrollo/testing)
//   - Redis (distribuido, para producción)
//
// Se usa para registros de sesión del identity provider local y para las
// ventanas del rate limiter.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. Si ttl es 0, no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Incr incrementa un contador y devuelve el valor resultante.
	// Si la key no existe, arranca en 1 con el TTL dado.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Delete elimina una key.
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Config para crear un cliente de cache.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string // prefijo para todas las keys

	// DefaultTTL aplica al backend memory cuando el Set no trae TTL.
	DefaultTTL time.Duration
}

// ErrNotFound indica que la key no existe (no es un error de transporte).
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es por key inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	}
}
