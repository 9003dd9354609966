package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Domain-level Prometheus metrics. These are defined in a standalone package to avoid
// import cycles between the resource/roles packages and the HTTP layer.

var (
	RoleResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "role_resolutions_total",
		Help: "Resoluciones de rol admin por resultado",
	}, []string{"result"}) // result: admin|not_admin|error

	ResourceMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_mutations_total",
		Help: "Mutaciones sobre colecciones por operación y resultado",
	}, []string{"collection", "op", "result"}) // op: create|update|delete, result: ok|error

	SessionEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_events_total",
		Help: "Eventos de sesión del identity provider",
	}, []string{"event"}) // event: sign_in|sign_up|sign_out|expired

	UploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storage_upload_bytes",
		Help:    "Tamaño en bytes de los archivos subidos",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)

// Register registers the domain metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		RoleResolutions,
		ResourceMutations,
		SessionEvents,
		UploadBytes,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
