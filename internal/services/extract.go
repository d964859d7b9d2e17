package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFence    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFence = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractJSON pulls a JSON object out of a model reply. A ```json fence is
// preferred, then any ``` fence, then the whole reply.
func ExtractJSON(text string) (map[string]any, error) {
	candidate := text
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if m := genericFence.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrInvalidModelOutput)
	}

	return obj, nil
}
