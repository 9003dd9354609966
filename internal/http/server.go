// Package http expone el arranque del servidor.
package http

import (
	"context"
	"net/http"
	"time"
)

// Start levanta el servidor y bloquea hasta que el listener falle.
func Start(addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	return srv.ListenAndServe()
}

// StartGraceful levanta el servidor y lo apaga de forma ordenada cuando el
// contexto se cancela. Las conexiones en vuelo tienen hasta 10s para cerrar.
func StartGraceful(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
