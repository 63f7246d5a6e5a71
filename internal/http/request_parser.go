package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finman/internal/core"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst, rejecting oversized
// bodies and unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id in path")
	}
	return id, nil
}

// parseAmount parses a strictly positive decimal amount.
func parseAmount(field, value string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(value)
	if err != nil {
		return core.Money{}, fmt.Errorf("invalid %s %q", field, value)
	}
	return core.Money{Cents: cents}, nil
}

// parseOptionalAmount parses a pointer field, returning nil when absent.
func parseOptionalAmount(field string, value *string) (*core.Money, error) {
	if value == nil {
		return nil, nil
	}
	m, err := parseAmount(field, *value)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// parseAmountAllowZero parses a decimal amount that may be zero or
// absent, used for initial balances and budgets.
func parseAmountAllowZero(field, value string) (core.Money, error) {
	v := strings.TrimSpace(value)
	if v == "" || isZeroDecimal(v) {
		return core.Money{}, nil
	}
	return parseAmount(field, value)
}

func isZeroDecimal(s string) bool {
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == 0
}

// parseDateField parses a YYYY-MM-DD value.
func parseDateField(field, value string) (core.Date, error) {
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", field, value)
	}
	return d, nil
}
