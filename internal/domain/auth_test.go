package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthorized(t *testing.T) {
	assert.True(t, IsAuthorized(111, "111,222"))
	assert.True(t, IsAuthorized(222, " 111 , 222 "))
	assert.False(t, IsAuthorized(999, "111,222"))
	assert.False(t, IsAuthorized(11, "111,222"))
	assert.False(t, IsAuthorized(0, ""))
	assert.False(t, IsAuthorized(111, ""))
}
