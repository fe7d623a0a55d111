package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/Ebtehal15/turkey-items-v2/api/middleware"
	"github.com/Ebtehal15/turkey-items-v2/api/responses"
	"github.com/Ebtehal15/turkey-items-v2/api/validators"
	"github.com/Ebtehal15/turkey-items-v2/pkg/config"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/session"
)

type sessionStarter interface {
	Start(ctx context.Context, kind session.Kind) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type sessionResponse struct {
	SessionToken string `json:"sessionToken"`
}

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// StartSession issues a fresh cart session token for a storefront visitor.
func StartSession(manager sessionStarter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		token, err := manager.Start(r.Context(), session.KindCart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session"))
			return
		}

		w.Header().Set("X-Session-Token", token)
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{SessionToken: token})
	}
}

// AdminLogin checks the shared panel password and issues an admin session.
func AdminLogin(manager sessionStarter, cfg config.AdminConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		var body adminLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if subtle.ConstantTimeCompare([]byte(body.Password), []byte(cfg.Password)) != 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password"))
			return
		}

		token, err := manager.Start(r.Context(), session.KindAdmin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session"))
			return
		}

		if logg != nil {
			logg.Info(logg.WithSessionID(r.Context(), token), "admin login")
		}

		w.Header().Set("X-Session-Token", token)
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{SessionToken: token})
	}
}

// AdminLogout revokes the presenting admin session.
func AdminLogout(manager sessionStarter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		if err := manager.Revoke(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
