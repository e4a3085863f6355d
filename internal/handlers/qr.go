package handlers

import (
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// HandleQR serves a PNG QR code pointing at the session so players can join from a phone
func (ctx *Context) HandleQR(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "qr", err)
		return
	}
	target := strings.TrimRight(ctx.PublicBaseURL, "/") + "/sessions/" + s.ID()
	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, r, "qr", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
