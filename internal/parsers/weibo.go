package parsers

import (
	"encoding/json"
	"net/url"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// WeiboSearchURL 微博搜索链接前缀
const WeiboSearchURL = "https://s.weibo.com/weibo?q="

type weiboDesktop struct {
	Data struct {
		Realtime []map[string]json.RawMessage `json:"realtime"`
	} `json:"data"`
}

// ParseWeiboDesktop 解析微博桌面端热搜接口 (data.realtime)
// 没有rank字段且带有is_ad字段的条目视为广告跳过
func ParseWeiboDesktop(body []byte) []models.TrendRow {
	var resp weiboDesktop
	if err := json.Unmarshal(body, &resp); err != nil {
		return []models.TrendRow{}
	}

	rows := []models.TrendRow{}
	for _, item := range firstN(resp.Data.Realtime, models.MaxRows) {
		_, hasRank := item["rank"]
		_, hasAd := item["is_ad"]
		if !hasRank && hasAd {
			continue
		}

		word := stringField(item, "word")
		if word == "" {
			continue
		}

		row := models.TrendRow{
			Title: word,
			URL:   WeiboSearchURL + url.QueryEscape(word),
			Heat:  heatText(item["num"]),
		}
		if label := stringField(item, "label_name"); label != "" {
			row.Note = "【" + label + "】"
		}
		rows = appendRow(rows, row)
	}
	return rows
}

type weiboMobile struct {
	Data struct {
		Cards []struct {
			CardGroup []map[string]json.RawMessage `json:"card_group"`
		} `json:"cards"`
	} `json:"data"`
}

// ParseWeiboMobile 解析微博移动端热搜接口 (data.cards[0].card_group)
func ParseWeiboMobile(body []byte) []models.TrendRow {
	var resp weiboMobile
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Data.Cards) == 0 {
		return []models.TrendRow{}
	}

	rows := []models.TrendRow{}
	for _, card := range firstN(resp.Data.Cards[0].CardGroup, models.MaxRows) {
		title := stringField(card, "desc")
		link := stringField(card, "scheme")
		if title == "" || link == "" {
			continue
		}
		rows = appendRow(rows, models.TrendRow{
			Title: title,
			URL:   link,
			Heat:  heatText(card["desc_extr"]),
		})
	}
	return rows
}
