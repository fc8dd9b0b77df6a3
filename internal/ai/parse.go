package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAnalysisJSON decodes a provider response. Strict mode requires the
// whole response to be one JSON object; lenient mode also accepts an object
// wrapped in code fences or prose.
func parseAnalysisJSON(response string, lenient bool) (*Analysis, error) {
	analysis, err := decodeObject(response)
	if err == nil || !lenient {
		return analysis, err
	}

	obj, ok := extractObject(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	analysis, err = decodeObject(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return analysis, nil
}

// rawAnalysis defers field decoding so that loosely typed replies, such as
// comma-separated keywords or an object sentiment, still produce an Analysis.
type rawAnalysis struct {
	Summary        json.RawMessage `json:"summary"`
	Keywords       json.RawMessage `json:"keywords"`
	Classification json.RawMessage `json:"classification"`
	Sentiment      json.RawMessage `json:"sentiment"`
}

func decodeObject(s string) (*Analysis, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	return &Analysis{
		Summary:        textOf(raw.Summary),
		Keywords:       keywordsOf(raw.Keywords),
		Classification: textOf(raw.Classification),
		Sentiment:      Sentiment(sentimentOf(raw.Sentiment)),
	}, nil
}

// textOf returns a JSON string's value, or the JSON text of any other value.
func textOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// keywordsOf accepts a list or a comma-separated string.
func keywordsOf(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return splitKeywords(textOf(raw))
	}
	var out []string
	for _, item := range items {
		if k := strings.TrimSpace(textOf(item)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// sentimentOf accepts a string or an object carrying the label under a
// common key, e.g. {"label":"positive","score":0.9}.
func sentimentOf(raw json.RawMessage) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		for _, key := range []string{"label", "overall", "sentiment", "value"} {
			if v, ok := obj[key]; ok {
				if s := textOf(v); s != "" {
					return s
				}
			}
		}
	}
	return textOf(raw)
}

// extractObject returns the first balanced {...} in s, skipping braces
// inside string literals.
func extractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
