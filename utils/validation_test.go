package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+15551234567"))
	assert.True(t, ValidatePhone("+1 (555) 123-4567"))
	assert.False(t, ValidatePhone("not a phone"))
	assert.False(t, ValidatePhone(""))
}
