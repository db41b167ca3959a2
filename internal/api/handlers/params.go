// Package handlers implements the REST endpoints over the advisor snapshot.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ramonehamilton/draft-advisor/internal/advisor"
	"github.com/ramonehamilton/draft-advisor/internal/api/response"
)

// SnapshotProvider returns the snapshot a request should read from.
type SnapshotProvider interface {
	Current() *advisor.Snapshot
}

// intParam reads an integer query parameter, returning def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", response.ErrBadRequest, name)
	}
	return v, nil
}

// uintParam reads a non-negative integer query parameter.
func uintParam(r *http.Request, name string, def uint) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", response.ErrBadRequest, name)
	}
	return uint(v), nil
}

// listParam reads a comma-separated query parameter. Repeated parameters
// are merged and blank entries dropped.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", response.ErrBadRequest, err)
	}
	return nil
}
