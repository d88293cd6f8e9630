package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regionQuery struct {
	Region string `validate:"omitempty,hostname_rfc1123,max=32"`
	Trends string `validate:"omitempty,boolean"`
}

type regionPath struct {
	Region string `validate:"required,hostname_rfc1123,max=32"`
}

func TestValidateRequest(t *testing.T) {
	cases := map[string]struct {
		input any
		valid bool
	}{
		"empty query":          {regionQuery{}, true},
		"region code":          {regionQuery{Region: "ap-southeast-1"}, true},
		"trends true":          {regionQuery{Trends: "true"}, true},
		"trends garbage":       {regionQuery{Trends: "sometimes"}, false},
		"region with spaces":   {regionQuery{Region: "us east"}, false},
		"missing path region":  {regionPath{}, false},
		"path region":          {regionPath{Region: "us-west-1"}, true},
		"overlong path region": {regionPath{Region: "a-very-long-region-code-that-exceeds"}, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateRequest(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	err := ValidateRequest(regionPath{})
	require.Error(t, err)

	out := FormatValidationErrors(err)
	require.Len(t, out, 1)
	assert.Equal(t, "Region", out[0].Field)
	assert.Equal(t, "This field is required", out[0].Message)

	out = FormatValidationErrors(ValidateRequest(regionQuery{Trends: "maybe"}))
	require.Len(t, out, 1)
	assert.Equal(t, "Value must be true or false", out[0].Message)
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(errors.New("not a validation error")))
}
