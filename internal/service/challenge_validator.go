package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// ChallengeValidator 题目级的附加校验器。数字求和判分对所有题目一致，
// 个别题目还要求提交时携带额外的反爬参数（例如翻页签名），由校验器验证。
type ChallengeValidator interface {
	// PublicParams 下发给客户端的公开参数
	PublicParams(userID, exerciseID uint) map[string]interface{}
	// Validate 校验提交携带的附加参数
	Validate(payload map[string]interface{}) bool
}

var (
	validatorMu       sync.RWMutex
	validatorRegistry = make(map[uint]ChallengeValidator)
)

func RegisterValidator(exerciseID uint, v ChallengeValidator) {
	validatorMu.Lock()
	defer validatorMu.Unlock()
	validatorRegistry[exerciseID] = v
}

// ValidatorForExercise 未注册则返回nil，此时只做求和判分
func ValidatorForExercise(exerciseID uint) ChallengeValidator {
	validatorMu.RLock()
	defer validatorMu.RUnlock()
	return validatorRegistry[exerciseID]
}

// PaginationSignValidator 翻页签名校验器：客户端翻页时需携带
// md5(timestamp + salt)，时间戳限制在偏移窗口内，防止重放。
type PaginationSignValidator struct {
	Salt    string
	MaxSkew time.Duration

	// 可注入的时钟，默认 time.Now
	Now func() time.Time
}

func NewPaginationSignValidator(salt string, maxSkew time.Duration) *PaginationSignValidator {
	return &PaginationSignValidator{
		Salt:    salt,
		MaxSkew: maxSkew,
		Now:     time.Now,
	}
}

func (v *PaginationSignValidator) PublicParams(userID, exerciseID uint) map[string]interface{} {
	return map[string]interface{}{
		"version":     "1.0.0",
		"exercise_id": exerciseID,
		"timestamp":   v.Now().Unix(),
		"hint":        fmt.Sprintf("翻页时需要携带 MD5(timestamp + '%s') 参数", v.Salt),
	}
}

func (v *PaginationSignValidator) Validate(payload map[string]interface{}) bool {
	if payload == nil {
		return false
	}

	ts, ok := payloadInt64(payload, "timestamp")
	if !ok {
		return false
	}

	sign, ok := payload["md5Param"].(string)
	if !ok || sign == "" {
		return false
	}

	now := v.Now().Unix()
	skew := now - ts
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > v.MaxSkew {
		return false
	}

	sum := md5.Sum([]byte(fmt.Sprintf("%d%s", ts, v.Salt)))
	return hex.EncodeToString(sum[:]) == sign
}

// payloadInt64 JSON反序列化后的数字是float64，也兼容直接传入的整数
func payloadInt64(payload map[string]interface{}, key string) (int64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
