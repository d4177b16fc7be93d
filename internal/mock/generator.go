// Package mock 在抓取失败时生成演示数据
package mock

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/RecoveryAshes/trendboard/internal/models"
)

// Note 演示数据的附注
const Note = "⚠️ 抓取失败，显示演示数据 (Mock)"

// 未知平台使用的候选标题
var fallbackCandidates = []string{"热点话题"}

// 各平台候选标题
var candidates = map[models.Platform][]string{
	models.PlatformBaidu:       {"中国空间站", "GDP目标", "文旅抢人", "国产大模型", "五一车票"},
	models.PlatformWeibo:       {"微博反爬升级中", "建议稍后刷新", "正在尝试破解", "演示数据A", "演示数据B"},
	models.PlatformBilibili:    {"何同学新作", "罗翔说刑法", "原神前瞻", "拜年纪", "演示数据"},
	models.PlatformDouyin:      {"科目三", "猫咪后空翻", "特种兵旅游", "听劝改造"},
	models.PlatformXiaohongshu: {"年度总结", "显眼包穿搭", "CityWalk", "减脂餐"},
	models.PlatformYouTube:     {"MrBeast", "GTA VI", "SpaceX"},
	models.PlatformTwitter:     {"#Bitcoin", "#AI", "Elon Musk"},
}

// Generator 演示数据生成器, 可并发使用
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator 使用指定种子创建生成器
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate 生成10条演示数据
// 前 len(candidates) 条从候选标题中随机选取, 其余为 "<平台名> 热门 <序号>"
func (g *Generator) Generate(platform models.Platform) []models.TrendRow {
	titles, ok := candidates[platform]
	if !ok {
		titles = fallbackCandidates
	}
	name := platform.DisplayName()

	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]models.TrendRow, models.MaxRows)
	for i := range rows {
		title := fmt.Sprintf("%s 热门 %d", name, i+1)
		if i < len(titles) {
			title = titles[g.rnd.IntN(len(titles))]
		}
		rows[i] = models.TrendRow{
			Rank:   i + 1,
			Title:  title,
			URL:    models.NoLink,
			Heat:   fmt.Sprintf("%dw", 100+g.rnd.IntN(900)),
			Note:   Note,
			IsMock: true,
		}
	}
	return rows
}

// Candidates 返回平台的候选标题
func Candidates(platform models.Platform) []string {
	titles, ok := candidates[platform]
	if !ok {
		titles = fallbackCandidates
	}
	return append([]string(nil), titles...)
}
