package admin

import (
	"net/http"

	dto "github.com/nusarupa/nusarupa/internal/http/dto/resources"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/metrics"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
)

// maxUploadBytes limita el tamaño del archivo subido (5MB).
const maxUploadBytes = 5 << 20

// UploadsController maneja la subida de imágenes para las colecciones.
type UploadsController struct {
	hooks Hooks
}

// NewUploadsController crea el controller de uploads.
func NewUploadsController(hooks Hooks) *UploadsController {
	return &UploadsController{hooks: hooks}
}

// Upload maneja POST /v1/admin/uploads (multipart).
// Campos: "file" (binario) y "folder" (artworks|activities|donations).
// Devuelve la URL pública; el caller la pasa al Create/Update siguiente.
func (c *UploadsController) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UploadsController.Upload"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("file: File gambar wajib diisi"))
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	var url string
	switch folder {
	case "activities":
		url, err = c.hooks.Activities.UploadImage(ctx, header.Filename, file, folder)
	case "donations":
		url, err = c.hooks.Donations.UploadImage(ctx, header.Filename, file, folder)
	case "artworks", "":
		url, err = c.hooks.Artworks.UploadImage(ctx, header.Filename, file, "artworks")
	default:
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("folder: Folder tidak dikenal"))
		return
	}
	if err != nil {
		log.Error("image upload failed", logger.String("folder", folder), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	metrics.UploadBytes.Observe(float64(header.Size))
	auditAction(ctx, "upload", "images", header.Filename)
	helpers.WriteJSON(w, http.StatusCreated, dto.UploadResponse{URL: url})
}
