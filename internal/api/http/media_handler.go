package http

import (
	"net/http"
	"path/filepath"
	"strings"
)

// handleMedia serves uploaded files. Every media URL must carry a valid,
// unexpired signature; anything else is a 404 so the handler leaks nothing
// about which files exist.
func (rt *Router) handleMedia(w http.ResponseWriter, r *http.Request) {
	if !rt.signer.Verify(r.URL.RequestURI()) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/media/")
	clean := filepath.Clean(rel)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	http.ServeFile(w, r, filepath.Join(rt.uploadDir, clean))
}
