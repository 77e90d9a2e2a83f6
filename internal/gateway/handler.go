package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mmynk/receiptsplit/internal/models"
)

// maxRequestBytes bounds the uploaded image payload.
const maxRequestBytes = 20 << 20

// ScrapeRequest is the body of POST /api/scrape.
type ScrapeRequest struct {
	Base64Image string `json:"base64Image"`
}

// ScrapeResponse is returned with status 200 for real and fallback results
// alike; degraded results carry Message and Error.
type ScrapeResponse struct {
	Items       []models.RawItem `json:"items,omitempty"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
	RawResponse string           `json:"rawResponse,omitempty"`
}

// NewHandler serves the scrape endpoint on top of ex.
func NewHandler(ex Extractor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, ScrapeResponse{Error: "Method not allowed"})
			return
		}

		var req ScrapeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			slog.Warn("Failed to decode scrape request", "error", err)
			writeJSON(w, http.StatusOK, toResponse(ErrorFallback(err)))
			return
		}

		if req.Base64Image == "" {
			writeJSON(w, http.StatusBadRequest, ScrapeResponse{Error: "No image provided"})
			return
		}

		slog.Debug("Scrape request received", "image_length", len(req.Base64Image))
		writeJSON(w, http.StatusOK, toResponse(ex.Extract(r.Context(), req.Base64Image)))
	})
}

func toResponse(res Result) ScrapeResponse {
	return ScrapeResponse{
		Items:       res.Items,
		Message:     res.Message,
		Error:       res.Error,
		RawResponse: res.RawResponse,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
