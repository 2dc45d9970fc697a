// Package sequence derives the next human-readable document number for
// customers, products and orders from the highest number currently stored.
//
// The derivation itself is a max-scan and therefore racy under concurrent
// creation; callers must pair it with a unique index on the number column
// and retry on conflict. See the repositories for the enforcement side.
package sequence

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "ordermgmt/pkg/errors"
)

// Number prefixes per document type
const (
	CustomerPrefix = "KD-"
	ProductPrefix  = "PRD-"
)

// Start values when no document of the type exists yet
const (
	firstCustomerNumber = 10001
	firstProductNumber  = 1
	firstOrderNumber    = 1
)

// OrderPrefix returns the order-number prefix for a year. Order numbers are
// scoped per year, so the sequence restarts at 1 every January.
func OrderPrefix(year int) string {
	return fmt.Sprintf("ORD-%d-", year)
}

// NextCustomerNumber returns the customer number following highest, in the
// format KD-<n> without padding. An empty highest starts the sequence at
// KD-10001.
func NextCustomerNumber(highest string) (string, error) {
	if highest == "" {
		return fmt.Sprintf("%s%d", CustomerPrefix, firstCustomerNumber), nil
	}
	n, err := trailingNumber(highest)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", CustomerPrefix, n+1), nil
}

// NextProductNumber returns the product number following highest, in the
// format PRD-<n> zero-padded to three digits. An empty highest starts the
// sequence at PRD-001.
func NextProductNumber(highest string) (string, error) {
	if highest == "" {
		return fmt.Sprintf("%s%03d", ProductPrefix, firstProductNumber), nil
	}
	n, err := trailingNumber(highest)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", ProductPrefix, n+1), nil
}

// NextOrderNumber returns the order number following highest within the
// given year, in the format ORD-<year>-<n> zero-padded to four digits. An
// empty highest starts the year's sequence at 0001.
func NextOrderNumber(year int, highest string) (string, error) {
	if highest == "" {
		return fmt.Sprintf("%s%04d", OrderPrefix(year), firstOrderNumber), nil
	}
	n, err := trailingNumber(highest)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", OrderPrefix(year), n+1), nil
}

// trailingNumber parses the integer after the last '-' separator. A number
// that does not end in an integer is a data-integrity problem: incrementing
// a guess could collide with or shadow real documents, so the operation
// must abort instead.
func trailingNumber(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, apperrors.NewIntegrity(
			fmt.Sprintf("document number %q has no numeric suffix", number), nil)
	}
	n, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, apperrors.NewIntegrity(
			fmt.Sprintf("document number %q has a non-numeric suffix", number), err)
	}
	return n, nil
}
