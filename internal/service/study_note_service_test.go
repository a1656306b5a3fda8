package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"纯文本原样保留", "记一次抓包过程", "记一次抓包过程"},
		{"去掉段落标签", "<p>hello</p><p>world</p>", "hello world"},
		{"嵌套标签", "<div><b>XPath</b> 定位技巧</div>", "XPath 定位技巧"},
		{"HTML实体还原", "a &amp; b &lt;c&gt;", "a & b <c>"},
		{"折叠多余空白", "<p>  a  </p>\n\n<p>b</p>", "a b"},
		{"空内容", "", ""},
		{"只有标签", "<br><hr>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripHTML(tt.content))
		})
	}
}
