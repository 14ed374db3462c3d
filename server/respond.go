package server

import (
	"encoding/json"
	"net/http"

	"github.com/inkpress/go-blog-server/auth"
	"github.com/inkpress/go-blog-server/blob"
	"github.com/inkpress/go-blog-server/posts"
	"github.com/inkpress/go-blog-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "invalid json body")
	}
	return nil
}

// respondError translates a service error into the matching status code and a
// terse JSON body. Unexpected errors are logged but never echoed to clients.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ValidationFailedErr),
		errors.Is(err, auth.UsernameTakenErr),
		errors.Is(err, auth.InvalidCredentialsErr),
		errors.Is(err, posts.MissingUploadErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.UnauthenticatedErr),
		errors.Is(err, posts.UnauthorizedErr),
		errors.Is(err, token.TokenInvalidErr):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, posts.ForbiddenErr):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, posts.PostNotFoundErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, blob.UploadFailedErr):
		log.Error().Err(err).Msg("blob store write failed")
		writeError(w, http.StatusBadGateway, blob.UploadFailedErr.Error())
	default:
		log.Error().Err(err).Msg("unexpected error at request boundary")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
