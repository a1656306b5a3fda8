package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHonorTitle(t *testing.T) {
	tests := []struct {
		name       string
		totalScore int
		want       string
	}{
		{"零分新手", 0, "新手上路"},
		{"临界值下", 49, "新手上路"},
		{"初窥门径下限", 50, "初窥门径"},
		{"进阶学徒下限", 200, "进阶学徒"},
		{"进阶学徒区间", 499, "进阶学徒"},
		{"逆向高手下限", 500, "逆向高手"},
		{"爬虫宗师下限", 1000, "爬虫宗师"},
		{"远超最高档", 9999, "爬虫宗师"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HonorTitle(tt.totalScore))
		})
	}
}
