package handler

import (
	"log/slog"
	"net/http"

	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// ShareHandler serves a QR code that opens the scoreboard page
type ShareHandler struct {
	publicURL string
	logger    *slog.Logger
}

// NewShareHandler creates a new ShareHandler. When publicURL is empty the
// link is derived from the request's host.
func NewShareHandler(publicURL string, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		publicURL: publicURL,
		logger:    logger,
	}
}

// QRCode handles GET /share.png
func (h *ShareHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.target(r), qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("encode share qr code", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(png)
}

// target is the URL encoded in the QR code
func (h *ShareHandler) target(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}
