package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signTimestamp(ts int64, salt string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d%s", ts, salt)))
	return hex.EncodeToString(sum[:])
}

func TestPaginationSignValidator_Validate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newValidator := func() *PaginationSignValidator {
		v := NewPaginationSignValidator("spider", 5*time.Minute)
		v.Now = func() time.Time { return now }
		return v
	}

	testCases := []struct {
		name    string
		payload map[string]interface{}
		want    bool
	}{
		{
			name: "签名正确",
			payload: map[string]interface{}{
				"timestamp": float64(now.Unix()),
				"md5Param":  signTimestamp(now.Unix(), "spider"),
			},
			want: true,
		},
		{
			name: "窗口内的旧时间戳",
			payload: map[string]interface{}{
				"timestamp": float64(now.Add(-4 * time.Minute).Unix()),
				"md5Param":  signTimestamp(now.Add(-4*time.Minute).Unix(), "spider"),
			},
			want: true,
		},
		{
			name: "时间戳过期",
			payload: map[string]interface{}{
				"timestamp": float64(now.Add(-6 * time.Minute).Unix()),
				"md5Param":  signTimestamp(now.Add(-6*time.Minute).Unix(), "spider"),
			},
			want: false,
		},
		{
			name: "签名错误",
			payload: map[string]interface{}{
				"timestamp": float64(now.Unix()),
				"md5Param":  signTimestamp(now.Unix(), "wrong-salt"),
			},
			want: false,
		},
		{
			name: "缺少签名",
			payload: map[string]interface{}{
				"timestamp": float64(now.Unix()),
			},
			want: false,
		},
		{
			name: "缺少时间戳",
			payload: map[string]interface{}{
				"md5Param": signTimestamp(now.Unix(), "spider"),
			},
			want: false,
		},
		{
			name:    "空参数",
			payload: nil,
			want:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, newValidator().Validate(tc.payload))
		})
	}
}

func TestPaginationSignValidator_PublicParams(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := NewPaginationSignValidator("spider", 5*time.Minute)
	v.Now = func() time.Time { return now }

	params := v.PublicParams(1, 1)
	assert.Equal(t, now.Unix(), params["timestamp"])
	assert.Contains(t, params["hint"], "spider")
}

func TestValidatorRegistry(t *testing.T) {
	v := NewPaginationSignValidator("salt", time.Minute)
	RegisterValidator(999, v)

	assert.Equal(t, ChallengeValidator(v), ValidatorForExercise(999))
	assert.Nil(t, ValidatorForExercise(998), "未注册的题目不应有校验器")
}
