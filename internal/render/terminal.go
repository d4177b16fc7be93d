// Package render 在终端中输出热榜快照和简报
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RecoveryAshes/trendboard/internal/models"
	"github.com/pterm/pterm"
)

// 平台状态徽标
const (
	BadgeMock    = "演示"
	BadgeProxy   = "需代理"
	BadgeNoData  = "暂无数据"
	maxTitleRune = 40
)

var (
	mockStyle  = pterm.NewStyle(pterm.FgBlack, pterm.BgYellow)
	proxyStyle = pterm.NewStyle(pterm.FgWhite, pterm.BgRed)
	emptyStyle = pterm.NewStyle(pterm.FgGray)
	titleStyle = pterm.NewStyle(pterm.Bold, pterm.FgCyan)
)

// Terminal 终端渲染器
type Terminal struct {
	out      io.Writer
	showLink bool
}

// Option 渲染选项
type Option func(*Terminal)

// WithLinks 在表格中输出链接列
func WithLinks(show bool) Option {
	return func(t *Terminal) {
		t.showLink = show
	}
}

// NewTerminal 创建渲染器
func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{out: out}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render 按快照顺序逐个平台输出表格, 末尾附统计
func (t *Terminal) Render(agg *models.Aggregate) error {
	for _, r := range agg.Results() {
		if err := t.renderPlatform(r); err != nil {
			return err
		}
	}

	stats := agg.Stats()
	fmt.Fprintf(t.out, "共 %d 个平台: 实时 %d, 演示 %d, 未抓取 %d | 快照 %s @ %s\n",
		stats.Platforms, stats.Live, stats.Mocked, stats.Skipped,
		agg.ID, agg.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (t *Terminal) renderPlatform(r models.PlatformResult) error {
	fmt.Fprintf(t.out, "\n%s %s\n", titleStyle.Sprint("【"+r.Platform.DisplayName()+"】"), badge(r))

	if r.IsEmpty() {
		return nil
	}

	data, err := t.tableData(r.Rows).Srender()
	if err != nil {
		return fmt.Errorf("渲染 %s 表格失败: %w", r.Platform, err)
	}
	fmt.Fprintln(t.out, data)
	return nil
}

func (t *Terminal) tableData(rows []models.TrendRow) *pterm.TablePrinter {
	withAuthor := false
	for _, row := range rows {
		if row.Author != "" {
			withAuthor = true
			break
		}
	}

	header := []string{"排名", "标题", "热度"}
	if withAuthor {
		header = append(header, "UP主")
	}
	if t.showLink {
		header = append(header, "链接")
	}

	data := pterm.TableData{header}
	for _, row := range rows {
		title := truncate(row.Title, maxTitleRune)
		if row.Note != "" {
			title += " (" + row.Note + ")"
		}
		line := []string{strconv.Itoa(row.Rank), title, row.Heat}
		if withAuthor {
			line = append(line, row.Author)
		}
		if t.showLink {
			line = append(line, row.URL)
		}
		data = append(data, line)
	}

	return pterm.DefaultTable.WithHasHeader(true).WithBoxed(false).WithData(data)
}

// RenderReport 输出大模型简报, 失败时原地显示错误
func (t *Terminal) RenderReport(model, content string, err error) {
	fmt.Fprintf(t.out, "\n%s\n", titleStyle.Sprint("🧠 舆情简报 ("+model+")"))
	if err != nil {
		fmt.Fprintf(t.out, "%s %v\n", proxyStyle.Sprint(" 简报生成失败 "), err)
		return
	}
	fmt.Fprintln(t.out, strings.TrimSpace(content))
}

func badge(r models.PlatformResult) string {
	switch {
	case r.State == models.StateSkipped:
		return proxyStyle.Sprint(" "+BadgeProxy+" ") + emptyStyle.Sprint(" 配置 --proxy-port 或使用云端模式后显示")
	case r.IsEmpty():
		return emptyStyle.Sprint(BadgeNoData)
	case r.IsMock():
		return mockStyle.Sprint(" " + BadgeMock + " ")
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
