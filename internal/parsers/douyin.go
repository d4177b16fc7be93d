package parsers

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// DouyinSearchURL 抖音搜索链接前缀
const DouyinSearchURL = "https://www.douyin.com/search/"

type douyinBillboard struct {
	WordList []struct {
		Word     string          `json:"word"`
		HotValue json.RawMessage `json:"hot_value"`
	} `json:"word_list"`
}

// ParseDouyin 解析抖音热搜榜接口 (word_list)
func ParseDouyin(body []byte) []models.TrendRow {
	var resp douyinBillboard
	if err := json.Unmarshal(body, &resp); err != nil {
		return []models.TrendRow{}
	}

	rows := []models.TrendRow{}
	for _, item := range firstN(resp.WordList, models.MaxRows) {
		word := strings.TrimSpace(item.Word)
		if word == "" {
			continue
		}
		rows = appendRow(rows, models.TrendRow{
			Title: word,
			URL:   DouyinSearchURL + url.PathEscape(word),
			Heat:  heatText(item.HotValue),
		})
	}
	return rows
}
