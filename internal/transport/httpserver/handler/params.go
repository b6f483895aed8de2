package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

// parsePagination reads page and per_page from the query string. Malformed
// or out-of-range values fall back to the defaults instead of erroring, and
// per_page is capped so a single request cannot drag the whole table.
func parsePagination(r *http.Request) (page, perPage int) {
	page = defaultPage
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	perPage = defaultPerPage
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			perPage = parsed
		}
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func offsetFor(page, perPage int) int {
	return (page - 1) * perPage
}

func parseID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// flexString carries a JSON value that clients send either as a string or
// as a number. A numeric zero and an empty string both decode to "", which
// downstream validation treats as absent.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(str))
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	if num == 0 {
		*s = ""
		return nil
	}
	*s = flexString(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

func (s flexString) String() string { return string(s) }
