package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/trendboard/internal/config"
	"github.com/RecoveryAshes/trendboard/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	quiet      bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	// 网络参数
	cloudMode   bool
	proxyPort   string
	parallelism int

	// 热榜参数
	platforms []string
	refresh   bool
	showLinks bool
	withAI    bool
	output    string
	addr      string
)

// appConfig 在 PersistentPreRunE 中加载
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "trendboard",
	Short: "全网热搜聚合看板",
	Long: `Trendboard - 全网热搜聚合看板

聚合百度、微博、B站、抖音、小红书、YouTube、Twitter 的实时热榜:
  • 抓取失败时自动使用演示数据
  • 海外平台需要云端部署或本地代理
  • 结果按平台缓存 (内存或Redis)
  • 调用大模型生成舆情简报
  • 提供HTTP接口和Prometheus指标

示例:
  # 终端查看全部平台
  trendboard show

  # 本地通过代理抓取海外平台
  trendboard show --cloud=false --proxy-port 7890

  # 只看微博和抖音, 并生成简报
  trendboard report -p weibo,douyin

  # 自定义请求头
  trendboard show -H "Cookie: SUB=xxx"

  # 验证配置文件
  trendboard --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 命令行参数覆盖配置文件, 只处理显式指定的参数
		flags := cmd.Flags()
		var cloud *bool
		var port *string
		if flags.Changed("cloud") {
			cloud = &cloudMode
		}
		if flags.Changed("proxy-port") {
			port = &proxyPort
		}
		if err := cfg.ApplyOverrides(cloud, port); err != nil {
			return err
		}
		if flags.Changed("parallelism") {
			cfg.Fetch.Parallelism = parallelism
		}

		if err := ValidateFlags(cfg.Network.ProxyPort, cfg.Fetch.Parallelism, platforms); err != nil {
			return err
		}

		logConfig := utils.LogConfig{
			Level:      cfg.Logging.Level,
			LogDir:     cfg.Logging.LogDir,
			MaxSize:    cfg.Logging.Rotation.MaxSize,
			MaxBackups: cfg.Logging.Rotation.MaxBackups,
			MaxAge:     cfg.Logging.Rotation.MaxAge,
			Compress:   cfg.Logging.Rotation.Compress,
			NoConsole:  quiet,
		}
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if f := cfg.File(); f != "" {
			utils.Debugf("使用配置文件: %s", f)
		}
		appConfig = cfg
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if validateConfig {
			return runValidateConfig()
		}
		return runShow(cmd.Context())
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "在终端显示各平台热榜",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.Context())
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出热榜快照为JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "显示热榜并生成大模型舆情简报",
	RunE: func(cmd *cobra.Command, args []string) error {
		withAI = true
		return runShow(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP接口服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	// 不需要加载配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Trendboard %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "配置文件路径")
	pf.BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	pf.BoolVarP(&quiet, "quiet", "q", false, "不在控制台输出日志")
	pf.StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	pf.StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	pf.BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性")

	// 网络参数
	pf.BoolVar(&cloudMode, "cloud", true, "云端模式: 直连所有平台, 不使用本地代理")
	pf.StringVar(&proxyPort, "proxy-port", "", "本地代理端口, 用于抓取海外平台")
	pf.IntVar(&parallelism, "parallelism", 0, "平台并发数, 1 为顺序抓取")

	// 热榜参数
	pf.StringSliceVarP(&platforms, "platform", "p", nil, "只显示指定平台, 逗号分隔 (如 weibo,douyin 或 微博)")
	pf.BoolVar(&refresh, "refresh", false, "清空缓存后重新抓取")

	showCmd.Flags().BoolVar(&showLinks, "links", false, "显示链接列")
	showCmd.Flags().BoolVar(&withAI, "ai", false, "同时生成舆情简报")
	reportCmd.Flags().BoolVar(&showLinks, "links", false, "显示链接列")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "导出文件, 默认写入 output_dir/trends_<时间>.json")
	serveCmd.Flags().StringVar(&addr, "addr", "", "监听地址, 默认使用配置 server.addr")

	// 添加子命令
	rootCmd.AddCommand(showCmd, exportCmd, reportCmd, serveCmd, versionCmd)
}

func main() {
	// Ctrl+C 取消进行中的抓取并优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		stop()
		os.Exit(1)
	}
}
