package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomID(t *testing.T) {
	first, err := GenerateRandomID()
	assert.NoError(t, err)
	assert.Len(t, first, 36)

	second, err := GenerateRandomID()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
