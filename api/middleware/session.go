package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ebtehal15/turkey-items-v2/api/responses"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/session"
)

const sessionHeader = "X-Session-Token"

// Session validates the session token header and seeds the request context.
// Admin sessions pass the cart gate too so the panel can exercise the
// storefront endpoints.
func Session(checker session.Checker, required session.Kind, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(sessionHeader))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			kind, err := checker.Lookup(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrUnknownSession) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown session"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}

			if kind != required && !(required == session.KindCart && kind == session.KindAdmin) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session not permitted"))
				return
			}

			ctx := WithSession(r.Context(), token, string(kind))
			if logg != nil {
				ctx = logg.WithSessionID(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
