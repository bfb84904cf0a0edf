package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationError marks a request that is well-formed HTTP but fails input
// checks. It maps to 422.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

// WriteValidation writes err as 422 when it is a ValidationError and reports
// whether it did.
func WriteValidation(w http.ResponseWriter, err error) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	WriteError(w, http.StatusUnprocessableEntity, verr.Error())
	return true
}

// DecodeJSON reads a single JSON object into dst. Any decoding problem is a
// ValidationError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return Invalid("", "request body is required")
		}
		return Invalid("", fmt.Sprintf("malformed JSON: %v", err))
	}
	if dec.More() {
		return Invalid("", "request body must contain a single JSON object")
	}
	return nil
}

// NormalizeEmail validates an address and returns it trimmed.
func NormalizeEmail(field, raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", Invalid(field, "field required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", Invalid(field, "value is not a valid email address")
	}
	return email, nil
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid(field, "field required")
	}
	return nil
}
