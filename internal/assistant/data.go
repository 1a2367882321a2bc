package assistant

import (
	"fmt"
	"strings"
)

// text returns the first non-empty value among keys, trimmed. Numbers are formatted.
func text(data map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64, int, int64, bool:
			s = fmt.Sprint(t)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// list reads key as a list of strings. A JSON array or a comma separated string both work.
func list(data map[string]interface{}, key string) []string {
	var raw []string
	switch v := data[key].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	case string:
		raw = strings.Split(v, ",")
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
