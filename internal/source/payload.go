package source

import (
	"strings"

	"github.com/buger/jsonparser"
)

// payloadField pulls the first present key out of a telemetry
// customDimensions payload. It tolerates CSV double-quote escaping and
// payloads wrapped as a JSON string. ok is false only when no repair yields
// a JSON object; an empty payload or an absent key is not malformed.
func payloadField(raw string, keys ...string) (value string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}

	for _, candidate := range payloadCandidates(raw) {
		data := []byte(candidate)
		if !isObject(data) {
			continue
		}
		for _, key := range keys {
			v, vt, _, err := jsonparser.Get(data, key)
			if err != nil {
				continue
			}
			switch vt {
			case jsonparser.String:
				s, perr := jsonparser.ParseString(v)
				if perr != nil {
					return "", false
				}
				return strings.TrimSpace(s), true
			case jsonparser.Number:
				return string(v), true
			case jsonparser.Null:
				return "", true
			}
		}
		return "", true
	}
	return "", false
}

// payloadCandidates lists the raw text followed by its plausible repairs.
func payloadCandidates(raw string) []string {
	candidates := []string{raw}
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		inner := raw[1 : len(raw)-1]
		if s, err := jsonparser.ParseString([]byte(inner)); err == nil {
			candidates = append(candidates, strings.TrimSpace(s))
		}
		candidates = append(candidates, strings.ReplaceAll(inner, `""`, `"`))
	}
	if strings.Contains(raw, `""`) {
		candidates = append(candidates, strings.ReplaceAll(raw, `""`, `"`))
	}
	return candidates
}

func isObject(data []byte) bool {
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	return jsonparser.ObjectEach(data, func(_, _ []byte, _ jsonparser.ValueType, _ int) error {
		return nil
	}) == nil
}
