package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "about-us", GenerateSlug("About Us"))
	assert.Equal(t, "sunday-service-9-00", GenerateSlug("  Sunday Service, 9:00  "))
	assert.Equal(t, "giving", GenerateSlug("---Giving---"))
	assert.Equal(t, "", GenerateSlug("!!!"))
}

func TestGenerateReference(t *testing.T) {
	ref, err := GenerateReference("don")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "don-"))
	assert.Len(t, ref, len("don-")+10)

	other, err := GenerateReference("don")
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestFormatDateRange(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-01 to 2026-08-31", FormatDateRange(from, to))
}
