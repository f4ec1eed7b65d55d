// Package handlers maps the JSON API routes onto the services. Every store
// failure is converted here into a generic 500 body; the underlying error
// never reaches the client.
package handlers

import (
	"net/http"
	"strconv"
)

// pathID parses a numeric path parameter; ok is false when absent or invalid.
func pathID(r *http.Request, name string) (uint, bool) {
	v := r.PathValue(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// asBool coerces the loosely typed `cumple` field (bool, number or string)
// the way the original clients send it.
func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}
