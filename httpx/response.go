package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// DomainError writes err with the status of its kind. Internal errors never
// expose their cause.
func DomainError(w http.ResponseWriter, err error) {
	t := apperr.TypeOf(err)
	status := apperr.HTTPStatus(t)
	de, ok := apperr.As(err)
	if !ok || t == apperr.TypeInternal {
		JSON(w, status, ErrorResponse{Error: "Something went wrong", Code: "generic_error"})
		return
	}
	resp := ErrorResponse{Error: de.Message, Code: de.Code}
	if !de.Fields.Empty() {
		resp.Details = de.Fields
	}
	JSON(w, status, resp)
}

// WantsJSON reports whether the client prefers a JSON answer.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.URL.Path, "/api/")
}
