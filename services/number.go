package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ndtreports/store"
)

// numberSuffix matches the trailing "-<year>-<sequence>" of a conclusion
// number.
var numberSuffix = regexp.MustCompile(`-\d{4}-(\d+)$`)

// FormatNumber builds a conclusion number from its parts. The sequence is
// padded to three digits and grows wider past 999.
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

// NextNumber proposes the number that follows the highest sequence already
// used in year. Only numbers containing "-<year>-" are considered; those
// without a parsable suffix count as zero.
func NextNumber(existing []string, prefix string, year int) string {
	scope := fmt.Sprintf("-%d-", year)
	highest := 0
	for _, n := range existing {
		if !strings.Contains(n, scope) {
			continue
		}
		if seq := sequenceOf(n); seq > highest {
			highest = seq
		}
	}
	return FormatNumber(prefix, year, highest+1)
}

func sequenceOf(number string) int {
	m := numberSuffix.FindStringSubmatch(number)
	if m == nil {
		return 0
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return seq
}

// GenerateConclusionNumber proposes the next number for the calendar year of
// now, based on every conclusion stored in repo.
func GenerateConclusionNumber(repo store.Repository, prefix string, now time.Time) (string, error) {
	numbers, err := store.Numbers(repo)
	if err != nil {
		return "", fmt.Errorf("list conclusion numbers: %w", err)
	}
	return NextNumber(numbers, prefix, now.Year()), nil
}
