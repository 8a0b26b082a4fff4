package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid password", "Passw0rd@", true},
		{"valid with all symbols", "Aa1@#$%^&+=", true},
		{"too short", "Aa1@x", false},
		{"missing digit", "Password@", false},
		{"missing uppercase", "passw0rd@", false},
		{"missing lowercase", "PASSW0RD@", false},
		{"missing special", "Passw0rd1", false},
		{"special outside allowed set", "Passw0rd!", false},
		{"empty", "", false},
		{"exactly eight chars", "Pas1word", false},
		{"exactly eight chars with symbol", "Pa1@word", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Passw0rd@"))

	err := ValidatePassword("weak")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestValidateStructStrongPasswordTag(t *testing.T) {
	type form struct {
		Password string `json:"password" validate:"required,strong_password"`
	}

	assert.NoError(t, ValidateStruct(&form{Password: "Passw0rd@"}))
	assert.Error(t, ValidateStruct(&form{Password: "weakpass"}))
}

func TestDecodeAndValidate(t *testing.T) {
	type form struct {
		Email string `json:"email" validate:"required,email"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"reader@example.com"}`))
	var f form
	require.NoError(t, DecodeAndValidate(req, &f))
	assert.Equal(t, "reader@example.com", f.Email)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email"}`))
	f = form{}
	assert.Error(t, DecodeAndValidate(req, &f))

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	f = form{}
	assert.Error(t, DecodeAndValidate(req, &f))

	req = httptest.NewRequest("POST", "/", strings.NewReader(``))
	f = form{}
	assert.Error(t, DecodeAndValidate(req, &f))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("reader1"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 21)))
	assert.Error(t, ValidateUsername("bad name!"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("reader@example.com"))
	assert.False(t, IsValidEmail("reader"))
}
