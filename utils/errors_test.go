package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupError(t *testing.T) {
	type testInput struct {
		errType int
		msgs    string
	}
	testCases := []struct {
		desc     string
		in       testInput
		expected LookupError
	}{
		{
			desc: "Invalid input maps to a client error and the original message",
			in: testInput{
				errType: INVALID_INPUT,
			},
			expected: LookupError{
				Type:       INVALID_INPUT,
				StatusCode: http.StatusBadRequest,
				msg:        "Invalid Inputs Provided",
			},
		},
		{
			desc: "Not found maps to a 404 and the original message",
			in: testInput{
				errType: NOT_FOUND,
			},
			expected: LookupError{
				Type:       NOT_FOUND,
				StatusCode: http.StatusNotFound,
				msg:        "Data not found",
			},
		},
		{
			desc: "Cache and store outages are both server errors but keep distinct messages",
			in: testInput{
				errType: STORE_UNAVAILABLE,
			},
			expected: LookupError{
				Type:       STORE_UNAVAILABLE,
				StatusCode: http.StatusInternalServerError,
				msg:        "Could not extract data from Database",
			},
		},
		{
			desc: "Custom message replaces the default one",
			in: testInput{
				errType: CACHE_UNAVAILABLE,
				msgs:    "redis down",
			},
			expected: LookupError{
				Type:       CACHE_UNAVAILABLE,
				StatusCode: http.StatusInternalServerError,
				msg:        "redis down",
			},
		},
		{
			desc: "Unknown error type no 'msgs' param was passed",
			in: testInput{
				errType: 100,
			},
			expected: LookupError{
				Type:       100,
				StatusCode: http.StatusInternalServerError,
			},
		},
	}
	for _, tc := range testCases {
		var lookupErr LookupError
		if len(tc.in.msgs) > 0 {
			lookupErr = NewLookupError(tc.in.errType, tc.in.msgs)
		} else {
			lookupErr = NewLookupError(tc.in.errType)
		}

		assert.Equal(t, tc.expected.Type, lookupErr.Type, tc.desc)
		assert.Equal(t, tc.expected.StatusCode, lookupErr.StatusCode, tc.desc)
		assert.Equal(t, tc.expected.Error(), lookupErr.Error(), tc.desc)
	}
}

func TestWrapLookupError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("lookup: %w", WrapLookupError(STORE_UNAVAILABLE, cause))

	assert.True(t, IsLookupErrorType(err, STORE_UNAVAILABLE))
	assert.False(t, IsLookupErrorType(err, CACHE_UNAVAILABLE))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "lookup: Could not extract data from Database", err.Error())
}

func TestIsLookupErrorTypeOnForeignError(t *testing.T) {
	assert.False(t, IsLookupErrorType(errors.New("plain"), NOT_FOUND))
	assert.False(t, IsLookupErrorType(nil, NOT_FOUND))
}
