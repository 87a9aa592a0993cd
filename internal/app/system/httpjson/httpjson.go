// Package httpjson holds the JSON response helpers shared by the API
// features. Every endpoint responds either with a payload or with the
// {"error": "..."} envelope these helpers produce.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the error envelope with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// Decode parses the request body into dst, enforcing a sane size cap.
// Unknown fields are tolerated; callers validate what they use.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
