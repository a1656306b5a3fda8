package service

import (
	"testing"

	"spider_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name          string
		questionType  string
		correctAnswer string
		userAnswer    string
		want          bool
	}{
		{"单选题答对", model.QuestionTypeSingle, "A", "A", true},
		{"单选题大小写不敏感", model.QuestionTypeSingle, "A", "a", true},
		{"单选题答错", model.QuestionTypeSingle, "A", "B", false},
		{"多选题顺序无关", model.QuestionTypeMulti, "AC", "CA", true},
		{"多选题带分隔符", model.QuestionTypeMulti, "A, C", "CA", true},
		{"多选题顿号分隔", model.QuestionTypeMulti, "A、B、D", "dba", true},
		{"多选题漏选", model.QuestionTypeMulti, "ABC", "AB", false},
		{"多选题多选", model.QuestionTypeMulti, "AB", "ABC", false},
		{"判断题答对", model.QuestionTypeBool, "正确", "正确", true},
		{"判断题答错", model.QuestionTypeBool, "正确", "错误", false},
		{"填空题忽略首尾空白", model.QuestionTypeFill, "Scrapy", "  Scrapy  ", true},
		{"填空题大小写不敏感", model.QuestionTypeFill, "XPath", "xpath", true},
		{"填空题答错", model.QuestionTypeFill, "XPath", "CSS", false},
		{"问答题宽松匹配", model.QuestionTypeEssay, "requests", " Requests ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAnswer(tt.questionType, tt.correctAnswer, tt.userAnswer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeChoices(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"纯字母", "CA", "AC"},
		{"逗号分隔", "A, C", "AC"},
		{"顿号分隔", "B、A", "AB"},
		{"小写转大写", "cab", "ABC"},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeChoices(tt.answer))
		})
	}
}
