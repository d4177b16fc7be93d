// Package crawlers 抓取各平台热榜
//
// # 概述
//
// Fetcher 负责单次HTTP请求: 每次请求创建一个Colly收集器, 随机User-Agent,
// 合并 HeaderManager 提供的头部, 按需走本地代理。任何失败(超时、非200、
// 连接错误、解压失败)都返回 (nil, false), 不向调用方报错。
//
//	fetcher := NewFetcher(network, headerManager, WithObserver(recorder.ObserveFetch))
//	body, ok := fetcher.Get(ctx, url, RequestOptions{Platform: models.PlatformBaidu})
//
// Source 组合 Fetcher 和 parsers 包中的解析函数, 每个平台一个:
//
//	for _, src := range DefaultSources(fetcher) {
//	    rows := src.Collect(ctx) // 失败时为空切片
//	}
//
// # 代理
//
// 只有海外平台(YouTube, Twitter)请求代理。云端模式下所有请求直连;
// 本地模式下未配置端口时, 海外平台由编排器直接跳过, 不会到达这里。
// 传输层不读取 HTTP_PROXY 等环境变量。
//
// # 微博
//
// 微博分两级: 先用同一个会话访问首页拿到访客Cookie再请求桌面端接口,
// 失败后改用移动端UA请求 m.weibo.cn。两级都失败时返回空。
//
// # 并发安全
//
// Fetcher 无可变状态, 可在多个goroutine中共享; Session 持有独立的Cookie Jar,
// 只在一次 Collect 内使用。
package crawlers
