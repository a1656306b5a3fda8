package service

import (
	"testing"

	"spider_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeNumber(t *testing.T) {
	testCases := []struct {
		name       string
		userID     uint
		exerciseID uint
		pageIndex  int
		slotIndex  int
		want       int
	}{
		{
			name:       "首页首位",
			userID:     1,
			exerciseID: 1,
			pageIndex:  0,
			slotIndex:  0,
			want:       101, // (1*1000+1*100) % 200 + 1
		},
		{
			name:       "同页相邻槽位递增",
			userID:     1,
			exerciseID: 1,
			pageIndex:  0,
			slotIndex:  1,
			want:       102,
		},
		{
			name:       "键值整除时回到最小值",
			userID:     2,
			exerciseID: 4,
			pageIndex:  0,
			slotIndex:  0,
			want:       1, // (2*1000+4*100) % 200 == 0
		},
		{
			name:       "末页末位",
			userID:     1,
			exerciseID: 1,
			pageIndex:  99,
			slotIndex:  9,
			want:       100, // (1100+999) % 200 + 1
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChallengeNumber(tc.userID, tc.exerciseID, tc.pageIndex, tc.slotIndex)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChallengeNumber_确定性(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t,
			ChallengeNumber(42, 3, 57, 8),
			ChallengeNumber(42, 3, 57, 8),
			"同一组输入必须生成同一个数字")
	}
}

func TestChallengeNumber_取值范围(t *testing.T) {
	for page := 0; page < ChallengeTotalPages; page++ {
		for slot := 0; slot < ChallengePageSize; slot++ {
			n := ChallengeNumber(7, 2, page, slot)
			require.GreaterOrEqual(t, n, 1)
			require.LessOrEqual(t, n, 200)
		}
	}
}

func TestChallengeTotalSum_与分页一致(t *testing.T) {
	const (
		userID     = 5
		exerciseID = 3
	)

	sum := 0
	for page := 1; page <= ChallengeTotalPages; page++ {
		numbers, err := ChallengePageNumbers(userID, exerciseID, page)
		require.NoError(t, err)
		require.Len(t, numbers, ChallengePageSize)
		for _, n := range numbers {
			sum += n
		}
	}

	assert.Equal(t, ChallengeTotalSum(userID, exerciseID), sum,
		"逐页求和必须等于按需计算的总和")
}

func TestChallengeTotalSum_确定性(t *testing.T) {
	// 1000个槽位恰好扫过模200的完整剩余系5次，
	// 任何用户和题目组合的总和都是 5 * (1+2+...+200)
	assert.Equal(t, 100500, ChallengeTotalSum(1, 1))
	assert.Equal(t, ChallengeTotalSum(8, 2), ChallengeTotalSum(8, 2))
}

func TestChallengePageNumbers_页码边界(t *testing.T) {
	testCases := []struct {
		name    string
		page    int
		wantErr error
	}{
		{name: "页码0越界", page: 0, wantErr: util.ErrPageOutOfRange},
		{name: "负页码越界", page: -3, wantErr: util.ErrPageOutOfRange},
		{name: "第1页合法", page: 1},
		{name: "第100页合法", page: 100},
		{name: "页码101越界", page: 101, wantErr: util.ErrPageOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			numbers, err := ChallengePageNumbers(9, 1, tc.page)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, numbers, ChallengePageSize)
		})
	}
}

func TestChallengeScore(t *testing.T) {
	testCases := []struct {
		name       string
		basePoints int
		timeSpent  int
		want       int
	}{
		{name: "底分加满额时间奖励", basePoints: 10, timeSpent: 0, want: 40},
		{name: "部分时间奖励", basePoints: 10, timeSpent: 100, want: 30},
		{name: "超时无奖励", basePoints: 10, timeSpent: 400, want: 10},
		{name: "刚好用满窗口", basePoints: 20, timeSpent: 300, want: 20},
		{name: "未配置底分时回退默认值", basePoints: 0, timeSpent: 300, want: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ChallengeScore(tc.basePoints, tc.timeSpent))
		})
	}
}
