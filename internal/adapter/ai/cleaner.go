// Package ai provides provider-shared response cleaning, decoding and the
// two-backend fallback orchestrator.
package ai

import (
	"strings"
)

// CleanJSONResponse strips markdown code fences and surrounding prose so the
// remainder can be decoded as JSON. Providers occasionally wrap otherwise
// valid JSON in ```json fences or lead with a sentence of commentary.
func CleanJSONResponse(response string) string {
	response = removeMarkdownFences(response)
	return extractJSON(response)
}

func removeMarkdownFences(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	return strings.TrimSpace(response)
}

// extractJSON returns the first balanced JSON object or array in the input,
// or the input unchanged when none is found.
func extractJSON(response string) string {
	objStart := strings.IndexByte(response, '{')
	arrStart := strings.IndexByte(response, '[')
	start := objStart
	open, close := byte('{'), byte('}')
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start = arrStart
		open, close = '[', ']'
	}
	if start == -1 {
		return response
	}
	depth := 0
	inString := false
	for i := start; i < len(response); i++ {
		c := response[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}
