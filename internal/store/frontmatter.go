package store

import "time"

// GetString returns a string value from frontmatter.
func GetString(fm map[string]any, key string) string {
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetStringSlice returns a string slice from frontmatter. A scalar string is
// treated as a one-element list.
func GetStringSlice(fm map[string]any, key string) []string {
	v, ok := fm[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		result := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

// FormatTime formats a time for persisted metadata.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
