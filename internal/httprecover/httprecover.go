// Package httprecover turns handler panics into JSON error responses.
package httprecover

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/pkg/render"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			// Hijacked connections and finished streams cannot carry a reply.
			if err == http.ErrAbortHandler {
				panic(err)
			}
			slog.Error("handler panic",
				slog.Any("err", err),
				slog.String("stacktrace", string(debug.Stack())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			render.EncodeResponse(w, http.StatusInternalServerError, models.ErrorResponse{Details: "internal server error"})
		}()
		next.ServeHTTP(w, r)
	})
}
