package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds request bodies. Roster documents are the largest payloads.
const MaxBodyBytes = 2 << 20

// Validator is implemented by request DTOs that check their own fields.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate reads exactly one JSON object into dest, rejecting unknown
// fields, then runs dest's Validate when it has one. It writes a 400 and returns
// false on any problem.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := decodeStrict(w, r, dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if problems := v.Validate(); len(problems) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
		return false
	}
	return true
}

func decodeStrict(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
