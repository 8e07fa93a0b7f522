package handler

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

// QRHandler serves a QR code pointing players at the rebuy page
type QRHandler struct {
	publicURL string
}

// NewQRHandler creates a new QR handler. publicURL is the externally
// reachable base URL for the service.
func NewQRHandler(publicURL string) *QRHandler {
	return &QRHandler{publicURL: publicURL}
}

const (
	defaultQRSize = 512
	maxQRSize     = 2048
)

// RebuyQR handles GET /rebuy/qr.png. The size query param controls the
// image dimensions in pixels.
func (h *QRHandler) RebuyQR(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxQRSize {
			WriteError(w, NewInvalidRequestError("size must be a positive integer up to 2048"))
			return
		}
		size = parsed
	}

	png, err := qrcode.Encode(h.publicURL+"/rebuy", qrcode.Medium, size)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}
