package handlers

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/aicaremanager/backend/pkg/errors"
)

func requiredString(q url.Values, name string) (string, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return "", apperrors.NewValidationError(name + " is required")
	}
	return v, nil
}

func requiredFloat(q url.Values, name string) (float64, error) {
	raw, err := requiredString(q, name)
	if err != nil {
		return 0, err
	}
	return parseFloat(name, raw)
}

func floatOrDefault(q url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	return parseFloat(name, raw)
}

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.NewValidationError(name + " must be a number")
	}
	return v, nil
}

func intOrDefault(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be an integer")
	}
	return v, nil
}

func boolOrDefault(q url.Values, name string, def bool) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(q.Get(name)))
	switch raw {
	case "":
		return def, nil
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, apperrors.NewValidationError(name + " must be a boolean")
}

// checkRange validates 0 < radius <= maxRadius and 1 <= limit <= maxLimit
func checkRange(radius, maxRadius float64, limit, maxLimit int) error {
	if !(radius > 0 && radius <= maxRadius) {
		return apperrors.NewValidationError(fmt.Sprintf("radius_km must be between 0 and %g", maxRadius))
	}
	if limit < 1 || limit > maxLimit {
		return apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", maxLimit))
	}
	return nil
}

func splitNames(csv string) []string {
	var names []string
	for _, part := range strings.Split(csv, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
