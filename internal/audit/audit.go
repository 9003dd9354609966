// Package audit registra acciones administrativas como eventos estructurados.
// Hoy el sink es el logger del proceso; la firma con contexto deja espacio
// para un sink externo sin tocar a los callers.
package audit

import (
	"context"

	"github.com/nusarupa/nusarupa/internal/observability/logger"
)

// Event es una acción administrativa auditable.
type Event struct {
	Action     string // "create" | "update" | "delete" | "upload"
	Collection string
	ResourceID string
	ActorID    string
}

// Log escribe el evento. Nunca falla ni bloquea al caller.
func Log(ctx context.Context, e Event) {
	logger.From(ctx).Info("audit",
		logger.String("action", e.Action),
		logger.Collection(e.Collection),
		logger.ResourceID(e.ResourceID),
		logger.UserID(e.ActorID),
	)
}
