package app

import (
	"context"
	"net/http"
)

type contextKey string

const userIDContextKey = contextKey("userID")

func contextSetUserId(r *http.Request, userID int) *http.Request {
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	return r.WithContext(ctx)
}

func (app *Application) contextGetUserId(r *http.Request) int {
	userID, ok := r.Context().Value(userIDContextKey).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userID
}
