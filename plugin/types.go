package plugin

import (
	"go/ast"
	"go/token"

	"github.com/donutnomad/gg"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// TargetKind 表示注解目标的类型
type TargetKind int

const (
	TargetStruct    TargetKind = iota + 1 // 结构体
	TargetInterface                       // 接口
	TargetType                            // 其他具名类型，如 type X int
	TargetFunc                            // 包级函数
	TargetMethod                          // 方法
	TargetVar                             // 包级变量
	TargetConst                           // 包级常量
)

func (k TargetKind) String() string {
	switch k {
	case TargetStruct:
		return "struct"
	case TargetInterface:
		return "interface"
	case TargetType:
		return "type"
	case TargetFunc:
		return "func"
	case TargetMethod:
		return "method"
	case TargetVar:
		return "var"
	case TargetConst:
		return "const"
	default:
		return "unknown"
	}
}

// ParamDef 定义注解参数的元信息
type ParamDef struct {
	Name        string // 参数名称
	Required    bool   // 是否必填
	Default     string // 默认值（如果不是必填）
	Description string // 参数描述
}

// Annotation 表示解析后的注解
type Annotation struct {
	Name   string            // 注解名称，如 "EnumImpl", "Variant"
	Params map[string]string // 键值参数，如 name=Shape
	Args   string            // 括号内的原始参数文本，未做任何拆分
	Raw    string            // 原始注解文本

	// Unclosed 左括号在行内没有闭合，Raw 与 Args 取到行尾
	Unclosed bool
	// DetachedParen 名称与左括号之间有空白，如 @Variant (is)，括号内容不属于注解
	DetachedParen bool
}

// Target 表示注解的目标类型声明
type Target struct {
	Kind        TargetKind
	Name        string
	PackageName string
	FilePath    string
	Position    token.Pos

	// Fset 与 File 来自同一次解析，用于定位和读取导入
	Fset *token.FileSet
	File *ast.File

	// Node 为 *ast.TypeSpec、*ast.FuncDecl 或 *ast.ValueSpec
	Node ast.Node
}

// Pos 返回目标在源文件中的位置
func (t *Target) Pos() token.Position {
	if t.Fset == nil {
		return token.Position{Filename: t.FilePath}
	}
	return t.Fset.Position(t.Position)
}

// TypeSpec 返回目标的类型声明节点，函数和变量目标返回 nil
func (t *Target) TypeSpec() *ast.TypeSpec {
	spec, _ := t.Node.(*ast.TypeSpec)
	return spec
}

// AnnotatedTarget 表示带注解的目标
type AnnotatedTarget struct {
	Target       *Target       // 目标信息
	Annotations  []*Annotation // 注解列表
	ParsedParams any           // 解析后的参数结构体
}

// ScanResult 表示扫描结果
type ScanResult struct {
	Types []*AnnotatedTarget // 带注解的声明，按文件和声明顺序排列

	// PackageConfigs 包级配置
	// key: 包目录
	PackageConfigs map[string]*PackageConfig
}

// All 返回所有带注解的目标
func (r *ScanResult) All() []*AnnotatedTarget {
	if r == nil {
		return nil
	}
	return r.Types
}

// ByKind 按目标类型过滤
func (r *ScanResult) ByKind(kind TargetKind) []*AnnotatedTarget {
	return lo.Filter(r.All(), func(t *AnnotatedTarget, _ int) bool {
		return t.Target.Kind == kind
	})
}

// GenerateContext 生成上下文，传递给 Generator
type GenerateContext struct {
	Targets        []*AnnotatedTarget        // 该 Generator 需要处理的目标
	PackageConfigs map[string]*PackageConfig // 包级配置，key: 包目录
	DefaultOutput  string                    // 命令行指定的默认输出路径（最低优先级）
	Verbose        bool                      // 详细输出
	Logger         *zap.Logger
}

// GetPackageConfig 获取目标所在包的配置
func (c *GenerateContext) GetPackageConfig(target *Target) *PackageConfig {
	if c.PackageConfigs == nil || target == nil {
		return nil
	}
	return c.PackageConfigs[packageDir(target.FilePath)]
}

// Log 返回可用的 logger
func (c *GenerateContext) Log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// GenerateResult 生成结果
// Generator 返回 gg 定义，由聚合器统一处理
type GenerateResult struct {
	// Definitions 是生成的 gg 定义
	// key: 输出文件路径
	Definitions map[string]*gg.Generator

	// Errors 单个目标的错误，不影响其他目标的输出
	Errors []error

	// Skipped 跳过的数量
	Skipped int
}

// PackageConfig 包级生成配置
// 通过 // go:enumgen: 注释定义，同一包内所有文件共享
// 示例:
//
//	// go:enumgen: -output `$FILE_enum`
//	// go:enumgen: plugin:enumimpl -output `enums`
type PackageConfig struct {
	PackageDir string

	// DefaultOutput 对所有插件生效的输出路径
	DefaultOutput string

	// PluginOutputs 插件特定的输出路径
	// key: 插件名（小写）
	PluginOutputs map[string]string
}

// GetPluginOutput 获取指定插件的输出路径
// 优先返回插件特定配置，其次返回默认配置
func (c *PackageConfig) GetPluginOutput(pluginName string) string {
	if c == nil {
		return ""
	}
	if output, ok := c.PluginOutputs[pluginName]; ok {
		return output
	}
	return c.DefaultOutput
}

// NewGenerateResult 创建新的生成结果
func NewGenerateResult() *GenerateResult {
	return &GenerateResult{
		Definitions: make(map[string]*gg.Generator),
	}
}

// AddDefinition 添加 gg 定义
func (r *GenerateResult) AddDefinition(path string, gen *gg.Generator) {
	if r.Definitions == nil {
		r.Definitions = make(map[string]*gg.Generator)
	}
	r.Definitions[path] = gen
}

// AddError 添加错误
func (r *GenerateResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
}
