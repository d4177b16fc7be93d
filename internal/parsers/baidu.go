package parsers

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/trendboard/internal/models"
)

// 百度热搜页面选择器
const (
	baiduItemSelector  = "div.category-wrap_iQLoo"
	baiduTitleSelector = ".c-single-text-ellipsis"
	baiduHeatSelector  = ".hot-index_1Bl1a"
)

// 页面内嵌的服务端渲染数据
var baiduStatePattern = regexp.MustCompile(`(?s)<!--s-data:(.*?)-->`)

// ParseBaidu 解析百度热搜榜页面
// 优先使用页面条目, 页面结构变化时回退到内嵌的s-data数据
func ParseBaidu(body []byte) []models.TrendRow {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []models.TrendRow{}
	}

	items := doc.Find(baiduItemSelector)
	if items.Length() == 0 {
		return parseBaiduState(body)
	}

	rows := []models.TrendRow{}
	items.Slice(0, min(items.Length(), models.MaxRows)).Each(func(_ int, item *goquery.Selection) {
		titleSel := item.Find(baiduTitleSelector).First()
		linkSel := item.Find("a[href]").First()
		heatSel := item.Find(baiduHeatSelector).First()
		if titleSel.Length() == 0 || linkSel.Length() == 0 || heatSel.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleSel.Text())
		link, _ := linkSel.Attr("href")
		if title == "" || strings.TrimSpace(link) == "" {
			return
		}

		rows = appendRow(rows, models.TrendRow{
			Title: title,
			URL:   strings.TrimSpace(link),
			Heat:  strings.TrimSpace(heatSel.Text()),
		})
	})
	return rows
}

type baiduState struct {
	Data struct {
		Cards []struct {
			Content []map[string]json.RawMessage `json:"content"`
		} `json:"cards"`
	} `json:"data"`
}

// parseBaiduState 解析 <!--s-data:{...}--> 中的榜单
func parseBaiduState(body []byte) []models.TrendRow {
	match := baiduStatePattern.FindSubmatch(body)
	if match == nil {
		return []models.TrendRow{}
	}

	var state baiduState
	if err := json.Unmarshal(match[1], &state); err != nil || len(state.Data.Cards) == 0 {
		return []models.TrendRow{}
	}

	// 置顶条目不计入榜单
	entries := make([]map[string]json.RawMessage, 0, len(state.Data.Cards[0].Content))
	for _, entry := range state.Data.Cards[0].Content {
		var isTop bool
		if raw, ok := entry["isTop"]; ok && json.Unmarshal(raw, &isTop) == nil && isTop {
			continue
		}
		entries = append(entries, entry)
	}

	rows := []models.TrendRow{}
	for _, entry := range firstN(entries, models.MaxRows) {
		title := stringField(entry, "word")
		link := stringField(entry, "rawUrl")
		if link == "" {
			link = stringField(entry, "url")
		}
		if title == "" || link == "" {
			continue
		}
		rows = appendRow(rows, models.TrendRow{
			Title: title,
			URL:   link,
			Heat:  heatText(entry["hotScore"]),
			Note:  stringField(entry, "desc"),
		})
	}
	return rows
}
