package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/soundtrack/internal/shared"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies; a playlist of a few thousand URIs fits well within it.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads the request body into dst. An empty body leaves dst at its zero value.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// check runs the struct's validate tags, reporting failures as [shared.ErrMissingInput].
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", shared.ErrMissingInput, verrs[0].Field())
		}
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
