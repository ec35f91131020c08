package httpapi

import (
	"net/http"
)

const maxImageBytes = 10 << 20 // 10 MiB

type imageResponse struct {
	URL string `json:"url"`
}

// handleUploadImage stores a multipart image upload and returns its public
// URL. Returns 503 when object storage is not configured.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "image uploads are not configured"})
		return
	}

	if _, ok := s.requireProfile(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	url, err := s.uploader.Upload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "upload failed"})
		return
	}

	writeJSON(w, http.StatusCreated, imageResponse{URL: url})
}
