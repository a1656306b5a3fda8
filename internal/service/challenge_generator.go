package service

import (
	"spider_edu_backend/internal/util"
)

// 挑战数字表的固定尺寸：100页 × 每页10个数字
const (
	ChallengeTotalPages = 100
	ChallengePageSize   = 10

	challengeValueRange = 200
)

// ChallengeNumber 确定性地生成 (用户, 题目, 页, 槽位) 对应的数字，取值范围 [1,200]。
// 同样的输入永远得到同样的输出，因此整张数字表无需落库，按需重算即可。
// 客户端展示和服务端判分必须使用同一公式。
func ChallengeNumber(userID, exerciseID uint, pageIndex, slotIndex int) int {
	key := int64(userID)*1000 + int64(exerciseID)*100 + int64(pageIndex)*10 + int64(slotIndex)

	// Go的取模会保留被除数符号，这里归一化到非负
	m := key % challengeValueRange
	if m < 0 {
		m += challengeValueRange
	}
	return int(m) + 1
}

// ChallengeTotalSum 整张数字表1000个数字的总和，即该挑战唯一的正确答案
func ChallengeTotalSum(userID, exerciseID uint) int {
	total := 0
	for page := 0; page < ChallengeTotalPages; page++ {
		for slot := 0; slot < ChallengePageSize; slot++ {
			total += ChallengeNumber(userID, exerciseID, page, slot)
		}
	}
	return total
}

// ChallengePageNumbers 返回第 pageNumber 页（1起）的10个数字，
// 页码越界时返回 util.ErrPageOutOfRange。
func ChallengePageNumbers(userID, exerciseID uint, pageNumber int) ([]int, error) {
	if pageNumber < 1 || pageNumber > ChallengeTotalPages {
		return nil, util.ErrPageOutOfRange
	}

	numbers := make([]int, ChallengePageSize)
	for slot := 0; slot < ChallengePageSize; slot++ {
		numbers[slot] = ChallengeNumber(userID, exerciseID, pageNumber-1, slot)
	}
	return numbers, nil
}
