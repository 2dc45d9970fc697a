package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "ordermgmt/pkg/errors"
)

func TestNextCustomerNumber(t *testing.T) {
	first, err := NextCustomerNumber("")
	assert.NoError(t, err)
	assert.Equal(t, "KD-10001", first)

	next, err := NextCustomerNumber("KD-10041")
	assert.NoError(t, err)
	assert.Equal(t, "KD-10042", next)
}

func TestNextProductNumber(t *testing.T) {
	first, err := NextProductNumber("")
	assert.NoError(t, err)
	assert.Equal(t, "PRD-001", first)

	next, err := NextProductNumber("PRD-001")
	assert.NoError(t, err)
	assert.Equal(t, "PRD-002", next)

	// padding widens once the counter outgrows three digits
	wide, err := NextProductNumber("PRD-999")
	assert.NoError(t, err)
	assert.Equal(t, "PRD-1000", wide)
}

func TestNextOrderNumber(t *testing.T) {
	first, err := NextOrderNumber(2025, "")
	assert.NoError(t, err)
	assert.Equal(t, "ORD-2025-0001", first)

	next, err := NextOrderNumber(2025, "ORD-2025-0041")
	assert.NoError(t, err)
	assert.Equal(t, "ORD-2025-0042", next)
}

func TestNextOrderNumber_ResetsPerYear(t *testing.T) {
	// the highest number of the new year is looked up under the new
	// year's prefix, so a fresh year always starts at 0001
	next, err := NextOrderNumber(2026, "")
	assert.NoError(t, err)
	assert.Equal(t, "ORD-2026-0001", next)
}

func TestSequence_StrictlyIncreasing(t *testing.T) {
	highest := ""
	var produced []string
	for i := 0; i < 5; i++ {
		n, err := NextProductNumber(highest)
		assert.NoError(t, err)
		produced = append(produced, n)
		highest = n
	}
	assert.Equal(t, []string{"PRD-001", "PRD-002", "PRD-003", "PRD-004", "PRD-005"}, produced)
}

func TestTrailingNumber_IntegrityErrors(t *testing.T) {
	cases := []string{"KD-abc", "PRD-", "garbage", "ORD-2025-12x"}
	for _, highest := range cases {
		_, err := NextCustomerNumber(highest)
		assert.Error(t, err, highest)
		assert.True(t, apperrors.Is(err, apperrors.CodeIntegrity), highest)
	}
}
