// Package middlewares contiene los decoradores http.Handler del servidor:
// identidad, grant de admin, rate limit, CORS, request id, recover, logging
// y métricas. El encadenado lo hace chi vía Router.Use.
package middlewares

import "net/http"

// Middleware decora un http.Handler. La firma es la que chi.Router.Use
// espera, así que cada constructor de este paquete se monta directo.
type Middleware func(http.Handler) http.Handler
