package handler

import (
	"net/http"
	"strconv"

	"github.com/VitMok/bank-backend/internal/auth"
	"github.com/VitMok/bank-backend/internal/domain"
)

func actorFromRequest(r *http.Request) (domain.Actor, *AppError) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		return domain.Actor{}, ErrMissingToken
	}
	return actor, nil
}

// idFromPath parses the {id} wildcard. Anything that is not a positive
// integer cannot name a row, so it reads as not found.
func idFromPath(r *http.Request) (int64, *AppError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrResourceNotFound
	}
	return id, nil
}
