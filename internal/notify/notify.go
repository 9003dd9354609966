// Package notify es el canal lateral de notificaciones de cara al usuario.
// Es una capacidad inyectada explícitamente: nada en el código la alcanza
// como singleton de módulo.
package notify

import "context"

// Level clasifica la notificación.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification es un mensaje de cara al usuario (el "toast" de la UI).
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Notifier consume notificaciones. Las implementaciones no deben bloquear
// el flujo del caller por fallas propias (best-effort).
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success construye una notificación de éxito con el título estándar.
func Success(message string) Notification {
	return Notification{Level: LevelSuccess, Title: "Berhasil", Message: message}
}

// Error construye una notificación de error con el título estándar.
func Error(message string) Notification {
	return Notification{Level: LevelError, Title: "Error", Message: message}
}

// Discard es un Notifier que descarta todo (tests, CLIs).
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Notification) {}
