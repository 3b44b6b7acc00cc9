package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
)

const (
	numberSeparator = "/"
	sequenceWidth   = 5
)

// NumberPrefix builds the "YY/{location}/{type}/" prefix that scopes a number sequence.
func NumberPrefix(year int, locationCode, typeCode string) (string, error) {
	if locationCode == "" || typeCode == "" {
		return "", fmt.Errorf("%w: location code and type code are required for numbering", apperrors.ErrValidation)
	}
	if strings.Contains(locationCode, numberSeparator) || strings.Contains(typeCode, numberSeparator) {
		return "", fmt.Errorf("%w: location code %q and type code %q must not contain %q", apperrors.ErrValidation, locationCode, typeCode, numberSeparator)
	}
	return fmt.Sprintf("%02d/%s/%s/", year%100, locationCode, typeCode), nil
}

// FormatDistributionNumber appends the zero padded sequence to prefix.
func FormatDistributionNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%0*d", prefix, sequenceWidth, sequence)
}

// ParseNumberSequence extracts the numeric suffix of a distribution number.
func ParseNumberSequence(number string) (int, error) {
	idx := strings.LastIndex(number, numberSeparator)
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("%w: malformed distribution number %q", apperrors.ErrValidation, number)
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: malformed distribution number %q", apperrors.ErrValidation, number)
	}
	return seq, nil
}
