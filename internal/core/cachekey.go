package core

import (
	"sort"
	"strings"
	"time"
)

// CacheKey builds the cache key for a command execution. The calendar date is
// always folded in so a "today" report can never serve yesterday's payload
// past midnight, whatever the TTL says.
func CacheKey(command string, params map[string]string, day time.Time) string {
	var b strings.Builder
	b.WriteString(command)

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("|")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(strings.ToLower(strings.TrimSpace(params[k])))
		}
	}

	b.WriteString("|")
	b.WriteString(day.Format("2006-01-02"))
	return b.String()
}
