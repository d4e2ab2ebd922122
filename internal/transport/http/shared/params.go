package shared

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PathID parses an integer id route parameter; 0 means absent or invalid.
func PathID(r *http.Request, name string) int64 {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
