package resource

import (
	"context"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"

	"github.com/nusarupa/nusarupa/internal/metrics"
	"github.com/nusarupa/nusarupa/internal/notify"
	"github.com/nusarupa/nusarupa/internal/objectstore"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// ImageBucket es el bucket del object store para imágenes subidas.
const ImageBucket = "images"

// Hook es la fachada CRUD de una colección con lista local optimista.
// Cada instancia posee su lista en exclusiva: la consistencia entre
// instancias es responsabilidad de cada FetchAll, no hay reconciliación
// de fondo.
//
// Invariante: tras cada create/update/delete exitoso la lista refleja
// exactamente el estado confirmado por el server para ESE registro; el
// resto de la lista es tan fresco como el último FetchAll.
type Hook[T any] struct {
	store    tablestore.Store
	objects  objectstore.Store
	notifier notify.Notifier
	col      Collection[T]

	mu      sync.RWMutex
	items   []T
	loading bool
	lastErr string // último error de fetch; se limpia en el próximo éxito

	// Mutaciones sobre el mismo id se serializan: dos updates rápidos al
	// mismo registro no pueden resolverse fuera de orden.
	idMu    sync.Mutex
	idLocks map[string]*sync.Mutex
}

// NewHook crea el hook. No dispara el fetch inicial: el wiring llama
// FetchAll al instanciar (y las pantallas cuando quieren refrescar).
func NewHook[T any](store tablestore.Store, objects objectstore.Store, notifier notify.Notifier, col Collection[T]) *Hook[T] {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Hook[T]{
		store:    store,
		objects:  objects,
		notifier: notifier,
		col:      col,
		idLocks:  make(map[string]*sync.Mutex),
	}
}

// Items devuelve una copia de la lista local.
func (h *Hook[T]) Items() []T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

// Loading reporta si hay un FetchAll en curso.
func (h *Hook[T]) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Err devuelve el mensaje del último fetch fallido ("" si el último fue ok).
func (h *Hook[T]) Err() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}

// FetchAll reemplaza la lista local entera con el snapshot remoto.
// En fallo la lista previa queda intacta y el error queda en Err().
func (h *Hook[T]) FetchAll(ctx context.Context) ([]T, error) {
	h.mu.Lock()
	h.loading = true
	h.mu.Unlock()

	recs, err := h.store.Select(ctx, h.col.Name, tablestore.Query{Order: h.col.Order})
	var items []T
	if err == nil {
		items, err = decodeAll(h.col, recs)
	}

	h.mu.Lock()
	h.loading = false
	if err != nil {
		h.lastErr = errMessage(err, h.col.Messages.LoadFailed)
		h.mu.Unlock()
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.LoadFailed)))
		return nil, err
	}
	h.lastErr = ""
	h.items = items
	h.mu.Unlock()

	return items, nil
}

// Create inserta y, en éxito, antepone el registro confirmado por el server
// (convención newest-first). En fallo la lista queda intacta y el error se
// notifica y se re-lanza.
func (h *Hook[T]) Create(ctx context.Context, input tablestore.Record) (T, error) {
	var zero T
	rec, err := h.store.Insert(ctx, h.col.Name, input)
	if err != nil {
		metrics.ResourceMutations.WithLabelValues(h.col.Name, "create", "error").Inc()
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.CreateFailed)))
		return zero, err
	}
	item, err := h.col.Decode(rec)
	if err != nil {
		metrics.ResourceMutations.WithLabelValues(h.col.Name, "create", "error").Inc()
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.CreateFailed)))
		return zero, err
	}
	metrics.ResourceMutations.WithLabelValues(h.col.Name, "create", "ok").Inc()

	h.mu.Lock()
	h.items = append([]T{item}, h.items...)
	h.mu.Unlock()

	h.notifier.Notify(ctx, notify.Success(h.col.Messages.CreateOK))
	return item, nil
}

// Update aplica un patch parcial. En éxito reemplaza la entrada local in
// place (mismo índice); en fallo no toca nada.
func (h *Hook[T]) Update(ctx context.Context, id string, patch tablestore.Record) (T, error) {
	var zero T
	unlock := h.lockID(id)
	defer unlock()

	rec, err := h.store.Update(ctx, h.col.Name, id, patch)
	if err != nil {
		metrics.ResourceMutations.WithLabelValues(h.col.Name, "update", "error").Inc()
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.UpdateFailed)))
		return zero, err
	}
	item, err := h.col.Decode(rec)
	if err != nil {
		metrics.ResourceMutations.WithLabelValues(h.col.Name, "update", "error").Inc()
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.UpdateFailed)))
		return zero, err
	}
	metrics.ResourceMutations.WithLabelValues(h.col.Name, "update", "ok").Inc()

	h.mu.Lock()
	for i := range h.items {
		if h.col.ID(h.items[i]) == id {
			h.items[i] = item
			break
		}
	}
	h.mu.Unlock()

	h.notifier.Notify(ctx, notify.Success(h.col.Messages.UpdateOK))
	return item, nil
}

// Delete elimina el registro; en éxito lo saca de la lista local.
func (h *Hook[T]) Delete(ctx context.Context, id string) error {
	unlock := h.lockID(id)
	defer unlock()

	if err := h.store.Delete(ctx, h.col.Name, id); err != nil {
		metrics.ResourceMutations.WithLabelValues(h.col.Name, "delete", "error").Inc()
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.DeleteFailed)))
		return err
	}
	metrics.ResourceMutations.WithLabelValues(h.col.Name, "delete", "ok").Inc()

	h.mu.Lock()
	for i := range h.items {
		if h.col.ID(h.items[i]) == id {
			h.items = append(h.items[:i:i], h.items[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	h.notifier.Notify(ctx, notify.Success(h.col.Messages.DeleteOK))
	return nil
}

// UploadImage sube el binario con un nombre aleatorio que preserva la
// extensión original y devuelve la URL pública. No toca la lista local:
// el caller pasa la URL al Create/Update siguiente.
func (h *Hook[T]) UploadImage(ctx context.Context, originalName string, data io.Reader, folder string) (string, error) {
	ext := path.Ext(originalName)
	name := uuid.NewString() + ext
	objPath := path.Join(folder, name)

	if err := h.objects.Upload(ctx, ImageBucket, objPath, data); err != nil {
		h.notifier.Notify(ctx, notify.Error(errMessage(err, h.col.Messages.UploadFailed)))
		return "", err
	}

	url := h.objects.PublicURL(ImageBucket, objPath)
	logger.From(ctx).Debug("image uploaded",
		logger.Component("resource"),
		logger.Collection(h.col.Name),
		logger.Bucket(ImageBucket),
		logger.String("path", objPath),
	)
	return url, nil
}

func (h *Hook[T]) lockID(id string) (unlock func()) {
	h.idMu.Lock()
	l, ok := h.idLocks[id]
	if !ok {
		l = &sync.Mutex{}
		h.idLocks[id] = l
	}
	h.idMu.Unlock()
	l.Lock()
	return l.Unlock
}

// errMessage devuelve el mensaje del error o el fallback del recurso.
func errMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
