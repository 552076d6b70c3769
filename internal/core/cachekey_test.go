package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	day := time.Date(2025, 3, 12, 14, 30, 0, 0, time.UTC)

	key := CacheKey("diagnose", map[string]string{"campaign": "Acme Corp"}, day)
	assert.Equal(t, "diagnose|campaign=acme corp|2025-03-12", key)

	// Params are folded and sorted, so equivalent queries share a key
	same := CacheKey("diagnose", map[string]string{"campaign": "  ACME CORP "}, day)
	assert.Equal(t, key, same)
}

func TestCacheKeyFoldsDate(t *testing.T) {
	day := time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)

	today := CacheKey("overview", nil, day)
	tomorrow := CacheKey("overview", nil, day.AddDate(0, 0, 1))
	assert.NotEqual(t, today, tomorrow)

	// Same calendar day, different clock time: same key
	laterToday := CacheKey("overview", nil, day.Add(-5*time.Hour))
	assert.Equal(t, today, laterToday)
}

func TestCacheKeyMultipleParamsSorted(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	a := CacheKey("tag_report", map[string]string{"tag": "acme", "extra": "x"}, day)
	b := CacheKey("tag_report", map[string]string{"extra": "x", "tag": "acme"}, day)
	assert.Equal(t, a, b)
	assert.Equal(t, "tag_report|extra=x|tag=acme|2025-03-12", a)
}
