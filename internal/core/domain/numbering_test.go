package domain_test

import (
	"testing"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberPrefix(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		location string
		typeCode string
		want     string
		wantErr  bool
	}{
		{name: "four digit year", year: 2025, location: "HQ", typeCode: "N", want: "25/HQ/N/"},
		{name: "leading zero year", year: 2007, location: "WH1", typeCode: "U", want: "07/WH1/U/"},
		{name: "missing location", year: 2025, location: "", typeCode: "N", wantErr: true},
		{name: "separator in type code", year: 2025, location: "HQ", typeCode: "N/A", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NumberPrefix(tt.year, tt.location, tt.typeCode)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAndParseDistributionNumber(t *testing.T) {
	number := domain.FormatDistributionNumber("25/HQ/N/", 12)
	assert.Equal(t, "25/HQ/N/00012", number)

	seq, err := domain.ParseNumberSequence(number)
	require.NoError(t, err)
	assert.Equal(t, 12, seq)

	assert.Equal(t, "25/HQ/N/123456", domain.FormatDistributionNumber("25/HQ/N/", 123456))

	_, err = domain.ParseNumberSequence("25/HQ/N/")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = domain.ParseNumberSequence("25/HQ/N/abc")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
