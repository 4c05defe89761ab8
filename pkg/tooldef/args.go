package tooldef

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GetString is a helper to extract a string parameter with a default value
func GetString(params map[string]any, key, defaultValue string) string {
	if val, ok := params[key]; ok {
		if str, ok := val.(string); ok && str != "" {
			return str
		}
	}
	return defaultValue
}

// GetFloat is a helper to extract a numeric parameter. Strings holding a
// number are accepted because some models quote numeric arguments.
func GetFloat(params map[string]any, key string) (float64, error) {
	val, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("required argument %q not found", key)
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("argument %q cannot be converted to a number", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("argument %q is not a number", key)
	}
}

// DecodeArguments parses a JSON object of call arguments as produced by a
// function-calling model. An empty string decodes to an empty map.
func DecodeArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return args, nil
}
