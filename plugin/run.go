package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/gg"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GeneratedHeader 生成文件的头部注释
const GeneratedHeader = "Code generated by enumgen. DO NOT EDIT."

// Run 运行代码生成
// 1. 扫描指定路径的注解
// 2. 将目标分发给对应的生成器
// 3. 执行生成器
// 4. 合并同一文件的 gg 定义并写入文件
func Run(ctx context.Context, registry *Registry, patterns ...string) error {
	return RunWithOptions(ctx, &RunOptions{
		Registry: registry,
		Patterns: patterns,
	})
}

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry
	Patterns []string
	Verbose  bool
	Output   string // 命令行指定的默认输出路径（最低优先级）
	Async    bool   // 是否并发执行生成器
	NoOutput bool   // 只检查不写入文件
	Logger   *zap.Logger

	// Diff 非空时写出生成结果与现有文件的 unified diff
	Diff io.Writer
	// Notices 生成文件提示的输出位置，默认标准输出
	Notices io.Writer
}

func (o *RunOptions) notices() io.Writer {
	if o.Notices == nil {
		return os.Stdout
	}
	return o.Notices
}

func (o *RunOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// RunStats 运行统计信息
type RunStats struct {
	ScanDuration     time.Duration // 扫描耗时
	GenerateDuration time.Duration // 生成耗时
	TotalDuration    time.Duration // 总耗时
	TargetCount      int           // 目标数量
	FileCount        int           // 生成文件数量
	Files            []string      // 生成（或将要生成）的文件
	Stale            []string      // 内容与磁盘不一致的文件，仅在设置 Diff 时统计
	Errors           []error       // 所有目标级错误
}

// RunWithOptions 带选项运行
func RunWithOptions(ctx context.Context, opts *RunOptions) error {
	_, err := RunWithOptionsAndStats(ctx, opts)
	return err
}

// RunWithOptionsAndStats 带选项运行并返回统计信息
// 单个目标的错误不会阻止其他目标写入，全部完成后统一返回
func RunWithOptionsAndStats(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	if opts.Registry == nil || len(opts.Registry.Annotations()) == 0 {
		return nil, errors.New("没有已注册的生成器")
	}
	r := &runner{opts: opts, log: opts.logger(), stats: &RunStats{}}
	start := time.Now()
	defer func() { r.stats.TotalDuration = time.Since(start) }()

	result, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}
	if r.stats.TargetCount == 0 {
		r.log.Debug("没有找到任何带注解的目标")
		return r.stats, nil
	}

	genStart := time.Now()
	files := r.generate(ctx, result)
	for _, f := range files {
		r.emit(f)
	}
	r.stats.GenerateDuration = time.Since(genStart)
	r.stats.Errors = r.errs

	if len(r.errs) > 0 {
		return r.stats, fmt.Errorf("生成过程中出现 %d 个错误", len(r.errs))
	}
	return r.stats, nil
}

// runner 一次运行的状态
type runner struct {
	opts  *RunOptions
	log   *zap.Logger
	stats *RunStats

	mu   sync.Mutex
	errs []error
}

func (r *runner) fail(errs ...error) {
	r.mu.Lock()
	r.errs = append(r.errs, errs...)
	r.mu.Unlock()
}

func (r *runner) scan(ctx context.Context) (*ScanResult, error) {
	start := time.Now()
	scanner := NewScanner(
		WithAnnotationFilter(r.opts.Registry.Annotations()...),
		WithScannerLogger(r.log),
	)
	result, err := scanner.Scan(ctx, r.opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("扫描失败: %w", err)
	}
	r.stats.ScanDuration = time.Since(start)
	r.stats.TargetCount = len(result.All())
	r.log.Debug("扫描完成",
		zap.Int("targets", r.stats.TargetCount),
		zap.Duration("elapsed", r.stats.ScanDuration))
	return result, nil
}

// outputFile 同一输出路径上各生成器的定义，按生成器优先级排列
type outputFile struct {
	path string
	defs []*gg.Generator
	gens []string
}

// generate 执行所有命中的生成器，返回按路径排序的输出文件
func (r *runner) generate(ctx context.Context, result *ScanResult) []*outputFile {
	dispatch := r.opts.Registry.DispatchTargets(result)
	// Generators 已按优先级排序
	gens := lo.Filter(r.opts.Registry.Generators(), func(gen Generator, _ int) bool {
		_, ok := dispatch[gen.Name()]
		return ok
	})

	// 参数解析会修改目标，必须在并发执行之前串行完成
	for _, gen := range gens {
		r.fail(parseTargetParams(gen, dispatch[gen.Name()])...)
	}

	results := make([]*GenerateResult, len(gens))
	run := func(i int) {
		gen := gens[i]
		log := r.log.With(zap.String("generator", gen.Name()))
		targets := dispatch[gen.Name()]
		log.Debug("执行生成器", zap.Int("targets", len(targets)))

		start := time.Now()
		res, err := gen.Generate(&GenerateContext{
			Targets:        targets,
			PackageConfigs: result.PackageConfigs,
			DefaultOutput:  r.opts.Output,
			Verbose:        r.opts.Verbose,
			Logger:         log,
		})
		log.Debug("生成器完成", zap.Duration("elapsed", time.Since(start)))
		if err != nil {
			r.fail(fmt.Errorf("生成器 %s 执行失败: %w", gen.Name(), err))
			return
		}
		results[i] = res
	}

	if r.opts.Async {
		g, _ := errgroup.WithContext(ctx)
		for i := range gens {
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range gens {
			run(i)
		}
	}

	byPath := make(map[string]*outputFile)
	for i, res := range results {
		if res == nil {
			continue
		}
		r.fail(res.Errors...)
		for path, def := range res.Definitions {
			f, ok := byPath[path]
			if !ok {
				f = &outputFile{path: path}
				byPath[path] = f
			}
			f.defs = append(f.defs, def)
			f.gens = append(f.gens, gens[i].Name())
		}
	}
	files := lo.Values(byPath)
	slices.SortFunc(files, func(a, b *outputFile) int {
		return strings.Compare(a.path, b.path)
	})
	return files
}

// emit 合并一个输出文件的定义，按选项比较或写入
func (r *runner) emit(f *outputFile) {
	merged, err := f.merge()
	if err != nil {
		r.fail(fmt.Errorf("合并文件 %s 的定义失败: %w", f.path, err))
		return
	}
	r.stats.Files = append(r.stats.Files, f.path)

	if r.opts.Diff != nil {
		changed, err := writeDiff(r.opts.Diff, f.path, merged)
		switch {
		case err != nil:
			r.fail(fmt.Errorf("比较文件 %s 失败: %w", f.path, err))
		case changed:
			r.stats.Stale = append(r.stats.Stale, f.path)
		}
	}

	if r.opts.NoOutput {
		r.log.Debug("跳过写入", zap.String("file", f.path))
		return
	}
	if err := writeGGFile(f.path, merged); err != nil {
		r.fail(fmt.Errorf("写入文件 %s 失败: %w", f.path, err))
		return
	}
	r.stats.FileCount++
	fmt.Fprintf(r.opts.notices(), "生成文件: %s\n", f.path)
}

// parseTargetParams 将注解参数解析到生成器的参数结构体
// 解析失败的目标 ParsedParams 为 nil，由生成器跳过
func parseTargetParams(gen Generator, targets []*AnnotatedTarget) []error {
	var errs []error
	defs := gen.ParamDefs()
	for _, target := range targets {
		params := gen.NewParams()
		if params == nil {
			continue
		}
		ann, ok := lo.Find(target.Annotations, func(ann *Annotation) bool {
			return slices.Contains(gen.Annotations(), ann.Name)
		})
		if !ok {
			continue
		}
		ptr := reflect.ValueOf(params)
		if ptr.Kind() != reflect.Pointer {
			errs = append(errs, fmt.Errorf("NewParams() 必须返回指针类型, 得到: %T", params))
			continue
		}

		target.ParsedParams = nil
		if err := ParseAnnotationParams(ann, params, defs); err != nil {
			errs = append(errs, fmt.Errorf("%s: 解析 @%s 参数失败: %w", target.Target.Pos(), ann.Name, err))
			continue
		}
		target.ParsedParams = ptr.Elem().Interface()
	}
	return errs
}

// merge 将各生成器的定义合并为一个文件
// 多个生成器写同一文件时，每段前加生成器名称分隔
func (f *outputFile) merge() (*gg.Generator, error) {
	if len(f.defs) == 0 {
		return nil, errors.New("没有定义需要合并")
	}

	pkgs := lo.Uniq(lo.FilterMap(f.defs, func(def *gg.Generator, _ int) (string, bool) {
		return def.PackageName(), def.PackageName() != ""
	}))
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("包名不一致: %s", strings.Join(pkgs, " vs "))
	}

	merged := gg.New()
	merged.SetHeader(GeneratedHeader)
	if len(pkgs) == 1 {
		merged.SetPackage(pkgs[0])
	}
	for i, def := range f.defs {
		if len(f.defs) > 1 {
			merged.Body().AddLine()
			merged.Body().AddString(fmt.Sprintf("// ================ %s ================", f.gens[i]))
			merged.Body().AddLine()
		}
		merged.Merge(def)
	}
	return merged, nil
}

// writeGGFile 将 gg 定义写入文件
func writeGGFile(path string, gen *gg.Generator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	return utils.WriteFormat(path, fileBytes(gen))
}

// fileBytes 渲染 gg 定义，生成头与 package 之间空一行，避免生成头成为包文档
func fileBytes(gen *gg.Generator) []byte {
	src := gen.String()
	header := "// " + GeneratedHeader + "\n"
	if rest, ok := strings.CutPrefix(src, header); ok && !strings.HasPrefix(rest, "\n") {
		src = header + "\n" + rest
	}
	return []byte(src)
}

// writeDiff 比较格式化后的生成结果与磁盘上的文件
// 文件不存在时视为空文件
func writeDiff(w io.Writer, path string, gen *gg.Generator) (bool, error) {
	want, err := utils.FormatSource(path, fileBytes(gen))
	if err != nil {
		return false, err
	}
	have, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if bytes.Equal(have, want) {
		return false, nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: path,
		ToFile:   path + " (生成)",
		Context:  3,
	}
	return true, difflib.WriteUnifiedDiff(w, diff)
}

// GetOutputPath 根据注解参数和默认规则计算输出路径
// 优先级：注解参数 > 包级插件配置 > 包级默认配置 > 命令行参数 > 默认文件名
// 模板变量：
//   - $FILE: 源文件名（不含 .go 后缀）
//   - $PACKAGE: 包名
//   - $TYPE: 目标类型名的 snake_case 形式
func GetOutputPath(target *Target, ann *Annotation, defaultFileName string, pkgConfig *PackageConfig, pluginName string, cmdOutput string) string {
	var output string
	if ann != nil {
		output = ann.GetParam("output")
	}
	if output == "" && pkgConfig != nil {
		output = pkgConfig.GetPluginOutput(strings.ToLower(pluginName))
	}
	if output == "" {
		output = cmdOutput
	}
	if output == "" {
		return GetDefaultOutputPath(target, defaultFileName)
	}

	output = replaceTemplateVars(output, target)
	if !strings.HasSuffix(output, ".go") {
		output += ".go"
	}
	if filepath.IsAbs(output) {
		return output
	}
	// 相对于源文件目录
	return filepath.Join(filepath.Dir(target.FilePath), output)
}

// replaceTemplateVars 替换模板变量
func replaceTemplateVars(template string, target *Target) string {
	fileName := strings.TrimSuffix(filepath.Base(target.FilePath), ".go")
	return strings.NewReplacer(
		"$FILE", fileName,
		"$PACKAGE", target.PackageName,
		"$TYPE", utils.ToSnakeCase(target.Name),
	).Replace(template)
}

// GetDefaultOutputPath 获取默认输出路径
// 同一个源文件内的所有注解默认输出到同一个文件
func GetDefaultOutputPath(target *Target, defaultFileName string) string {
	if defaultFileName == "" {
		defaultFileName = "$FILE_enum.go"
	}
	defaultFileName = replaceTemplateVars(defaultFileName, target)
	return filepath.Join(filepath.Dir(target.FilePath), defaultFileName)
}
