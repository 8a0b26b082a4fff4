package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetTokenIsExpired(t *testing.T) {
	future := &PasswordResetToken{ExpiresAt: time.Now().Add(1 * time.Hour)}
	assert.False(t, future.IsExpired())

	past := &PasswordResetToken{ExpiresAt: time.Now().Add(-1 * time.Minute)}
	assert.True(t, past.IsExpired())
}
