package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenKindValid(t *testing.T) {
	assert.True(t, TokenKindAccess.Valid())
	assert.True(t, TokenKindRefresh.Valid())
	assert.False(t, TokenKind("").Valid())
	assert.False(t, TokenKind("session").Valid())
}
