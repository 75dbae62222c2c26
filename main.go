package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/donutnomad/enumgen/enumimpl"
	"github.com/donutnomad/enumgen/internal/config"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose         bool
	output          string
	noOutput        bool
	async           bool
	configPath      string
	diagnosticsJSON string
	diffMode        bool

	cfg      *config.Config
	logger   *zap.Logger
	registry *plugin.Registry
)

var rootCmd = &cobra.Command{
	Use:   "enumgen [路径...]",
	Short: "enumgen - 带标签联合体访问方法生成工具",
	Long: `enumgen 扫描带 @EnumImpl 注解的结构体模板，
为每个 @Variant 变体生成 is/as/asMut/into/from 访问方法。

路径支持 Go 包路径模式，如 ./... 或 ./models/...，默认为 ./...`,
	SilenceUsage:      true,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGen,
}

var genCmd = &cobra.Command{
	Use:   "gen [路径...]",
	Short: "执行代码生成（默认）",
	RunE:  runGen,
}

var devCmd = &cobra.Command{
	Use:   "dev [路径...]",
	Short: "开发模式，监听文件变动自动生成",
	RunE:  runDev,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "详细输出")
	flags.StringVar(&output, "output", "", "默认输出路径（支持模板变量 $FILE, $PACKAGE, $TYPE）")
	flags.BoolVar(&noOutput, "no-output", false, "只检查，不写入文件")
	flags.BoolVar(&async, "async", true, "并发执行生成器")
	flags.StringVar(&configPath, "config", "", "配置文件路径（默认 "+config.DefaultPath+"）")
	flags.BoolVar(&diffMode, "diff", false, "输出与现有文件的差异，不写入；存在差异时返回错误")
	flags.StringVar(&diagnosticsJSON, "diagnostics-json", "", "将诊断以 JSON 写入文件，- 表示标准输出")

	rootCmd.AddCommand(genCmd, devCmd)
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + helpFooter())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup 读取配置，初始化日志和生成器注册表
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath, configPath != "")
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	if cfg.Verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	docs, err := enumimpl.NewDocTemplates(cfg.Docs)
	if err != nil {
		return fmt.Errorf("加载文档模板失败: %w", err)
	}
	registry = plugin.NewRegistry()
	registry.MustRegister(enumimpl.NewEnumGenerator(enumimpl.WithDocTemplates(docs)))
	return nil
}

// applyFlags 显式传入的命令行参数覆盖配置文件
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("async") {
		cfg.Async = async
	}
}

func patternsOf(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}
	return args
}

func runOptions(patterns []string) *plugin.RunOptions {
	opts := &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  cfg.Verbose,
		Output:   cfg.Output,
		Async:    cfg.Async,
		NoOutput: noOutput,
		Logger:   logger,
		Notices:  textOut(),
	}
	if diffMode {
		opts.NoOutput = true
		opts.Diff = textOut()
	}
	return opts
}

// textOut 面向人的输出，诊断 JSON 占用标准输出时改用标准错误
func textOut() io.Writer {
	if diagnosticsJSON == "-" {
		return os.Stderr
	}
	return os.Stdout
}

func runGen(cmd *cobra.Command, args []string) error {
	patterns := patternsOf(args)
	logger.Debug("开始生成",
		zap.Strings("patterns", patterns),
		zap.Strings("annotations", registry.Annotations()))

	stats, err := plugin.RunWithOptionsAndStats(cmd.Context(), runOptions(patterns))
	if stats != nil {
		printErrors(stats.Errors)
		if werr := writeDiagnostics(stats.Errors); werr != nil {
			return werr
		}
		if stats.FileCount > 0 || cfg.Verbose {
			out := textOut()
			fmt.Fprintf(out, "\n统计: 扫描 %d 个目标, 生成 %d 个文件\n", stats.TargetCount, stats.FileCount)
			fmt.Fprintf(out, "耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
		}
		if err == nil && diffMode && len(stats.Stale) > 0 {
			return fmt.Errorf("%d 个生成文件已过期", len(stats.Stale))
		}
	}
	return err
}

// printErrors 诊断附带源码片段输出，其他错误原样输出
func printErrors(errs []error) {
	var diags []*enumimpl.Diagnostic
	for _, e := range errs {
		if d, ok := enumimpl.AsDiagnostic(e); ok {
			diags = append(diags, d)
			continue
		}
		fmt.Fprintln(os.Stderr, e)
	}
	if err := enumimpl.WriteText(os.Stderr, diags, os.ReadFile); err != nil {
		logger.Warn("输出诊断失败", zap.Error(err))
	}
}

// writeDiagnostics 按 --diagnostics-json 输出诊断
func writeDiagnostics(errs []error) error {
	if diagnosticsJSON == "" {
		return nil
	}
	diags := enumimpl.Diagnostics(errs)
	if diagnosticsJSON == "-" {
		return enumimpl.WriteJSON(os.Stdout, diags)
	}

	f, err := os.Create(diagnosticsJSON)
	if err != nil {
		return fmt.Errorf("创建诊断文件失败: %w", err)
	}
	defer f.Close()
	return enumimpl.WriteJSON(f, diags)
}

func helpFooter() string {
	return `
支持的注解:
` + plugin.FormatHelpText(defaultRegistry()) + `
模板变量:
  $FILE     - 源文件名（不含 .go 后缀）
  $PACKAGE  - 包名
  $TYPE     - 模板类型名的 snake_case 形式

示例:
  enumgen                                   扫描当前目录（默认 ./...）
  enumgen -v ./models/...                   详细模式扫描 models 目录
  enumgen --output '$FILE_gen' ./...        指定输出文件名
  enumgen --no-output --diagnostics-json -  只检查并输出 JSON 诊断
  enumgen --diff ./...                      检查生成文件是否最新（适用于 CI）
  enumgen dev ./...                         开发模式，监听文件变动
`
}

// defaultRegistry 仅用于帮助文本
func defaultRegistry() *plugin.Registry {
	r := plugin.NewRegistry()
	r.MustRegister(enumimpl.NewEnumGenerator())
	return r
}
