// Package sqlguard provides placeholder accounting and defensive SQL checks
// for dynamically assembled queries.
package sqlguard

import (
	"regexp"
	"strconv"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
)

// positionalRegex matches PostgreSQL positional parameters ($1, $2, ...).
var positionalRegex = regexp.MustCompile(`\$(\d+)`)

// CountMarkers counts `?` value markers in a SQL fragment. Markers inside
// single-quoted string literals are not counted.
func CountMarkers(fragment string) int {
	count := 0
	inString := false
	for i := 0; i < len(fragment); i++ {
		switch fragment[i] {
		case '\'':
			inString = !inString
		case '?':
			if !inString {
				count++
			}
		}
	}
	return count
}

// CountPositional returns the number of $n placeholders in sql and the
// highest index referenced. A query assembled by the builder never reuses an
// index, so occurrences and the highest index must agree.
func CountPositional(sql string) (occurrences, max int) {
	matches := positionalRegex.FindAllStringSubmatch(sql, -1)
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		occurrences++
		if n > max {
			max = n
		}
	}
	return occurrences, max
}

// VerifyAlignment checks that the assembled query text references exactly
// argCount positional parameters, numbered contiguously from $1. A mismatch
// is a programming defect surfaced as a BuildError.
func VerifyAlignment(sql string, argCount int) error {
	occurrences, max := CountPositional(sql)
	if occurrences != argCount || max != argCount {
		return &apperrors.BuildError{Placeholders: occurrences, Params: argCount}
	}
	return nil
}
