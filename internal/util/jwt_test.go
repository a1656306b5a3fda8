package util

import (
	"testing"
	"time"

	"spider_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	return &model.User{
		BaseModel:   model.BaseModel{ID: 7},
		Username:    "spider_man",
		IsSuperuser: true,
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "spider_man", claims.Username)
	assert.True(t, claims.IsSuperuser)
}

func TestParseJWT_密钥不匹配(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret")
	assert.Error(t, err)
}

func TestParseJWT_已过期(t *testing.T) {
	token, err := GenerateJWT(testUser(), "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestParseJWT_非法令牌(t *testing.T) {
	_, err := ParseJWT("not.a.jwt", "test-secret")
	assert.Error(t, err)
}
