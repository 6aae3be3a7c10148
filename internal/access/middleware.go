package access

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const recorderKeyContextKey contextKey = "recorderKeyID"

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}

// RecorderKeyMiddleware gates the recorder entry points (expense tracking
// and delegated spends). Callers present their credential in the
// X-Api-Key-Id / X-Api-Key headers.
func (s *Service) RecorderKeyMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			keyID := r.Header.Get("X-Api-Key-Id")
			apiKey := r.Header.Get("X-Api-Key")
			if keyID == "" || apiKey == "" {
				writeJSONError(w, http.StatusUnauthorized, "Recorder credentials are required")
				return
			}

			if err := s.VerifyRecorderKey(keyID, apiKey); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid recorder credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithRecorder(r.Context(), keyID)))
		})
	}
}

// ContextWithRecorder attaches a verified recorder key id to the context.
func ContextWithRecorder(ctx context.Context, keyID string) context.Context {
	return context.WithValue(ctx, recorderKeyContextKey, keyID)
}

// RecorderFromContext returns the verified recorder key id, or "" when the
// request did not pass the recorder middleware.
func RecorderFromContext(ctx context.Context) string {
	keyID, _ := ctx.Value(recorderKeyContextKey).(string)
	return keyID
}
