package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServiceAccountJSON returns a Google service-account document with the
// escaped newlines in private_key restored. Keys passed through a
// single-line environment variable arrive with literal "\n" sequences.
func ServiceAccountJSON(raw string) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	if key, ok := parsed["private_key"].(string); ok {
		parsed["private_key"] = strings.ReplaceAll(key, "\\n", "\n")
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}
	return out, nil
}
