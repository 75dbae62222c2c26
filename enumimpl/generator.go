package enumimpl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/donutnomad/gg"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const generatorName = "enumimpl"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// AnnotationName 模板结构体上的注解名
const AnnotationName = "EnumImpl"

// EnumParams 定义 EnumImpl 注解支持的参数
type EnumParams struct {
	Name   string `param:"name=name,required=false,default=,description=生成的联合类型名，默认为首字母大写的模板名"`
	Output string `param:"name=output,required=false,default=,description=输出文件路径"`
}

// EnumGenerator 实现 plugin.Generator 接口
type EnumGenerator struct {
	plugin.BaseGenerator

	docs     *DocTemplates
	resolver *importResolver
}

// Option EnumGenerator 选项
type Option func(*EnumGenerator)

// WithDocTemplates 使用自定义的文档模板
func WithDocTemplates(docs *DocTemplates) Option {
	return func(g *EnumGenerator) {
		g.docs = docs
	}
}

// NewEnumGenerator 创建生成器
func NewEnumGenerator(opts ...Option) *EnumGenerator {
	gen := &EnumGenerator{
		BaseGenerator: *plugin.NewBaseGenerator(
			generatorName,
			[]string{AnnotationName, VariantAnnotation},
			// 结构体以外的目标也会分发过来，由生成器报告 wrong-target
			plugin.WithTargets(plugin.TargetStruct, plugin.TargetInterface, plugin.TargetType,
				plugin.TargetFunc, plugin.TargetMethod, plugin.TargetVar, plugin.TargetConst),
			plugin.WithParams(EnumParams{}),
			plugin.WithPriority(10),
		),
		resolver: newImportResolver(),
	}
	for _, opt := range opts {
		opt(gen)
	}
	return gen
}

// Usage 字段级 @Variant 指令的用法
func (g *EnumGenerator) Usage() string {
	return `字段注解 @` + VariantAnnotation + `([pub|impl] op [= "name"], ...)
  op: ` + opNameList() + `
  pub       生成导出的方法名
  impl from 为载荷类型生成构造函数，不能重命名
示例:
  Circle struct{ R float64 } // @` + VariantAnnotation + `(pub is, as_ref = "circle", impl from)`
}

// unitInfo 一个联合类型的生成结果和所在包
type unitInfo struct {
	target *plugin.Target
	output *Output
}

// Generate 执行代码生成
// 每个联合类型独立生成，失败的联合类型只产生一条诊断
func (g *EnumGenerator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()
	log := ctx.Log()

	docs := g.docs
	if docs == nil {
		var err error
		if docs, err = NewDocTemplates(nil); err != nil {
			return nil, err
		}
	}

	// key: 输出路径
	fileUnits := make(map[string][]*unitInfo)

	for _, at := range ctx.Targets {
		ann := plugin.GetAnnotation(at.Annotations, AnnotationName)
		if ann == nil {
			continue
		}
		if at.ParsedParams == nil {
			// 参数解析失败，错误已经记录
			result.Skipped++
			continue
		}
		params, ok := at.ParsedParams.(EnumParams)
		if !ok {
			result.AddError(fmt.Errorf("ParsedParams 类型断言失败: %T", at.ParsedParams))
			continue
		}

		out, err := g.expandTarget(at.Target, params, docs)
		if err != nil {
			log.Debug("联合类型生成失败", zap.String("type", at.Target.Name), zap.Error(err))
			result.AddError(err)
			continue
		}

		pkgConfig := ctx.GetPackageConfig(at.Target)
		outputPath := plugin.GetOutputPath(at.Target, ann, "$FILE_enum.go", pkgConfig, g.Name(), ctx.DefaultOutput)
		fileUnits[outputPath] = append(fileUnits[outputPath], &unitInfo{target: at.Target, output: out})

		log.Debug("处理联合类型",
			zap.String("type", at.Target.Name),
			zap.String("union", out.Schema.Name),
			zap.Int("members", len(out.Members)),
			zap.Int("foreign", len(out.Foreign)),
			zap.String("output", outputPath))
		if log.Core().Enabled(zap.DebugLevel) {
			log.Debug("布局", zap.String("type", at.Target.Name), zap.String("layout", dumpConfig.Sdump(out.Layout)))
		}
	}

	outputPaths := lo.Keys(fileUnits)
	slices.Sort(outputPaths)

	for _, outputPath := range outputPaths {
		units := fileUnits[outputPath]
		// 按源文件和声明位置排序，保证输出稳定
		slices.SortFunc(units, func(a, b *unitInfo) int {
			if c := strings.Compare(a.target.FilePath, b.target.FilePath); c != 0 {
				return c
			}
			return int(a.target.Position) - int(b.target.Position)
		})

		gen, errs := g.generateDefinition(units)
		for _, err := range errs {
			result.AddError(err)
		}
		if gen != nil {
			result.AddDefinition(outputPath, gen)
		}
	}

	return result, nil
}

// expandTarget 读取目标并展开，返回的错误都是 *Diagnostic
func (g *EnumGenerator) expandTarget(target *plugin.Target, params EnumParams, docs *DocTemplates) (*Output, error) {
	schema, err := NewUnionSchema(target, params.Name)
	if err != nil {
		return nil, err
	}
	return Expand(schema, ExpandOptions{
		Docs:    docs,
		Imports: g.resolver.FileImports(target.FilePath, target.File),
	})
}

// generateDefinition 为同一输出文件的联合类型生成 gg 定义
// 与之前的联合类型名称冲突的联合类型被跳过，不影响其他联合类型
func (g *EnumGenerator) generateDefinition(units []*unitInfo) (*gg.Generator, []error) {
	if len(units) == 0 {
		return nil, []error{fmt.Errorf("没有目标需要生成")}
	}

	pkgName := units[0].target.PackageName
	gen := gg.New()
	gen.SetPackage(pkgName)

	var (
		errs     []error
		rendered int
	)
	seen := make(map[string]string)
	for _, u := range units {
		if u.target.PackageName != pkgName {
			errs = append(errs, fmt.Errorf("%s: 包名不一致: %s vs %s", u.target.Pos(), pkgName, u.target.PackageName))
			continue
		}
		names := u.output.packageNames()
		dup, ok := lo.Find(names, func(n string) bool {
			_, taken := seen[n]
			return taken
		})
		if ok {
			errs = append(errs, newDiagnostic(u.target.Pos(), ErrNameConflict,
				"包级名称 %s 重复: %s 与 %s", dup, u.output.Schema.Name, seen[dup]))
			continue
		}
		for _, name := range names {
			seen[name] = u.output.Schema.Name
		}
		u.output.Render(gen)
		rendered++
	}
	if rendered == 0 {
		return nil, errs
	}
	return gen, errs
}

// packageNames 生成的全部包级名称
func (o *Output) packageNames() []string {
	names := []string{o.Schema.Name, o.Layout.TagType}
	for _, t := range o.Layout.Tags {
		names = append(names, t.Name)
	}
	for _, m := range o.Members {
		if m.Op == OpFrom {
			names = append(names, m.Name)
		}
	}
	for _, m := range o.Foreign {
		names = append(names, m.Name)
	}
	return names
}
