package schema

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/atvirokodosprendimai/bookstore/internal/apperr"
)

const maxBodySize = 1 << 20

// ErrorHandler is the terminal stage that renders a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware forwards requests whose body satisfies the schema and hands every
// other request to onError as an *apperr.Error. It never writes a response itself.
func (v *Validator) Middleware(onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil {
				raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
				if err != nil {
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						onError(w, r, apperr.New("request body too large", http.StatusRequestEntityTooLarge))
						return
					}
					onError(w, r, apperr.BadRequest("Validation failed: "+RootPath+" request body could not be read"))
					return
				}
				body = raw
			}

			if err := v.Check(body).Err(); err != nil {
				onError(w, r, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
