package parsers

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/trendboard/internal/models"
)

// 海外平台链接前缀
const (
	YouTubeWatchURL   = "https://www.youtube.com/watch?v="
	TwitterSearchURL  = "https://twitter.com/search?q="
	kworbVideoSegment = "video/"
)

// ParseYouTube 解析kworb的YouTube趋势表格
func ParseYouTube(body []byte) []models.TrendRow {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []models.TrendRow{}
	}

	rows := []models.TrendRow{}
	trs := doc.Find("tbody").First().Find("tr")
	trs.Slice(0, min(trs.Length(), models.MaxRows)).Each(func(_ int, tr *goquery.Selection) {
		a := tr.Find("a").First()
		href, ok := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if !ok || title == "" {
			return
		}
		rows = appendRow(rows, models.TrendRow{
			Title: title,
			URL:   youtubeLink(strings.TrimSpace(href)),
		})
	})
	return rows
}

// youtubeLink 将 video/<id>.html 转换为YouTube观看链接
func youtubeLink(href string) string {
	_, after, found := strings.Cut(href, kworbVideoSegment)
	if !found {
		return href
	}
	id := strings.TrimSuffix(after, ".html")
	if id == "" {
		return href
	}
	return YouTubeWatchURL + id
}

// ParseTwitter 解析getdaytrends的趋势表格
func ParseTwitter(body []byte) []models.TrendRow {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []models.TrendRow{}
	}

	rows := []models.TrendRow{}
	trs := doc.Find("table.table tbody tr")
	trs.Slice(0, min(trs.Length(), models.MaxRows)).Each(func(_ int, tr *goquery.Selection) {
		a := tr.Find("a").First()
		if a.Length() == 0 {
			return
		}
		title := strings.TrimSpace(a.Text())
		if title == "" {
			return
		}
		rows = appendRow(rows, models.TrendRow{
			Title: title,
			URL:   TwitterSearchURL + url.QueryEscape(title),
			Heat:  strings.TrimSpace(tr.Find("small").First().Text()),
		})
	})
	return rows
}
