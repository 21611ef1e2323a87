package handler

import (
	"net/http"

	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/metrics"
	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/services/sharing"
)

// ExportHandler serves the session as a download, share payload or QR code
type ExportHandler struct {
	store   *session.Store
	sharing *sharing.Service
	metrics *metrics.Recorder
}

// NewExportHandler creates a new export handler
func NewExportHandler(store *session.Store, sharingService *sharing.Service, recorder *metrics.Recorder) *ExportHandler {
	return &ExportHandler{
		store:   store,
		sharing: sharingService,
		metrics: recorder,
	}
}

// Export handles GET /api/v1/session/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := sharing.Download(h.store.Snapshot())
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.ObserveExport("json")

	response.Attachment(w, file.Name, file.ContentType, file.Data)
}

// Share handles GET /api/v1/session/share
func (h *ExportHandler) Share(w http.ResponseWriter, r *http.Request) {
	payload, err := h.sharing.Payload(h.store.Snapshot())
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.ObserveExport("share")
	response.JSON(w, http.StatusOK, payload)
}

// QRCode handles GET /api/v1/session/qr. With ?format=png the image itself is
// returned, otherwise a JSON data URI.
func (h *ExportHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()

	if r.URL.Query().Get("format") == "png" {
		data, err := sharing.QRCodePNG(snapshot)
		if err != nil {
			WriteError(w, err)
			return
		}
		h.metrics.ObserveExport("png")
		response.Bytes(w, "image/png", data)
		return
	}

	uri, err := sharing.QRCode(snapshot)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.ObserveExport("qr")
	response.JSON(w, http.StatusOK, response.QRCode{DataURI: uri})
}
