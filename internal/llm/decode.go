package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"privlens/internal/port"
)

var errNoJSONObject = errors.New("no JSON object in response")

// ExtractJSON strips markdown code fences and returns the first complete JSON
// object in text. Anything after that object is ignored.
func ExtractJSON(text string) (string, error) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		if nl := strings.IndexByte(t, '\n'); nl >= 0 {
			// Drop the language tag line, e.g. ```json.
			t = t[nl+1:]
		}
		if end := strings.LastIndex(t, "```"); end >= 0 {
			t = t[:end]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.IndexByte(t, '{')
	if start < 0 {
		return "", errNoJSONObject
	}
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(t[start:])).Decode(&raw); err != nil {
		return "", fmt.Errorf("%w: %v", errNoJSONObject, err)
	}
	return string(raw), nil
}

// Decode parses a raw completion into out and validates it. Unparseable text
// yields *MalformedResponseError; a record that parses but fails Validate
// yields *SchemaValidationError.
func Decode(text string, out port.Schema) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return &MalformedResponseError{Err: err, Raw: text}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &SchemaValidationError{Err: err, Raw: text}
		}
		return &MalformedResponseError{Err: err, Raw: text}
	}
	if err := out.Validate(); err != nil {
		return &SchemaValidationError{Err: err, Raw: text}
	}
	return nil
}
