package utils

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetNewUUID returns a random v4 id in canonical form. Jobs, documents, projects,
// answers and chunks are all keyed this way.
func GetNewUUID() string {
	return uuid.NewString()
}

func GetChiURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
