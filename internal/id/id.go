package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatLineRef returns a reference like "2023-042-007" for the seq-th line
// of statement number in year. The number is zero-padded to three digits
// when numeric.
func FormatLineRef(year, number string, seq int) string {
	if n, err := strconv.Atoi(number); err == nil {
		number = fmt.Sprintf("%03d", n)
	}
	return fmt.Sprintf("%s-%s-%03d", year, number, seq)
}

// ParseLineRef splits "2023-042-007" into year, statement number and seq.
func ParseLineRef(ref string) (year, number string, seq int, err error) {
	parts := strings.SplitN(ref, "-", 3)
	if len(parts) != 3 {
		return "", "", 0, fmt.Errorf("invalid line reference format: %q", ref)
	}

	if _, err := strconv.Atoi(parts[0]); err != nil || len(parts[0]) != 4 {
		return "", "", 0, fmt.Errorf("invalid year in line reference %q", ref)
	}
	if parts[1] == "" {
		return "", "", 0, fmt.Errorf("missing statement number in line reference %q", ref)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid sequence in line reference %q: %w", ref, err)
	}

	return parts[0], parts[1], seq, nil
}

// StatementKey returns the "2023-042" prefix shared by all lines of one
// statement.
func StatementKey(year, number string) string {
	ref := FormatLineRef(year, number, 0)
	return ref[:strings.LastIndex(ref, "-")]
}
