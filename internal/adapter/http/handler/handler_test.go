package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/wasteledger/internal/domain"
)

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withActor(req *http.Request, role domain.ActorRole) *http.Request {
	user := &domain.User{UserRef: domain.UserRef{ID: "user-1", Name: "Test User"}, Role: role}
	return req.WithContext(domain.ContextWithUser(req.Context(), user))
}
