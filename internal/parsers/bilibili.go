package parsers

import (
	"encoding/json"
	"strings"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// BilibiliVideoURL B站视频链接前缀
const BilibiliVideoURL = "https://www.bilibili.com/video/"

type bilibiliRanking struct {
	Data struct {
		List []struct {
			Title       string `json:"title"`
			ShortLinkV2 string `json:"short_link_v2"`
			Bvid        string `json:"bvid"`
			Owner       struct {
				Name string `json:"name"`
			} `json:"owner"`
			Stat        struct {
				View json.RawMessage `json:"view"`
			} `json:"stat"`
		} `json:"list"`
	} `json:"data"`
}

// ParseBilibili 解析B站排行榜接口 (data.list)
func ParseBilibili(body []byte) []models.TrendRow {
	var resp bilibiliRanking
	if err := json.Unmarshal(body, &resp); err != nil {
		return []models.TrendRow{}
	}

	rows := []models.TrendRow{}
	for _, v := range firstN(resp.Data.List, models.MaxRows) {
		title := strings.TrimSpace(v.Title)
		link := strings.TrimSpace(v.ShortLinkV2)
		if link == "" && v.Bvid != "" {
			link = BilibiliVideoURL + v.Bvid
		}
		if title == "" || link == "" {
			continue
		}
		rows = appendRow(rows, models.TrendRow{
			Title:  title,
			URL:    link,
			Author: strings.TrimSpace(v.Owner.Name),
			Heat:   heatText(v.Stat.View),
		})
	}
	return rows
}
