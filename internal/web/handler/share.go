package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/xctimer/internal/services/session"
	"github.com/mcoot/xctimer/internal/services/sharing"
	"github.com/mcoot/xctimer/internal/web/templates/layout"
	"github.com/mcoot/xctimer/internal/web/templates/pages"
)

// ShareHandler renders the share page
type ShareHandler struct {
	store   *session.Store
	sharing *sharing.Service
	logger  *slog.Logger
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(store *session.Store, sharingService *sharing.Service, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		store:   store,
		sharing: sharingService,
		logger:  logger,
	}
}

// Share renders the QR code, share text and download link for the current session
func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()

	payload, err := h.sharing.Payload(snapshot)
	if err != nil {
		h.logger.Error("failed to build share payload", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.ShareData{
		PageData:     layout.PageData{Title: "Share"},
		Payload:      payload,
		DownloadName: sharing.FileName(snapshot),
	}
	if uri, err := sharing.QRCode(snapshot); err != nil {
		h.logger.Warn("qr code unavailable", slog.Any("error", err))
		data.QRError = "Session is too large for a QR code. Use the download instead."
	} else {
		data.QRDataURI = uri
	}

	render(w, r, pages.Share(data))
}
