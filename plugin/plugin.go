package plugin

import "reflect"

// Generator 代码生成器
// 注册表按注解把扫描到的目标分发给生成器
type Generator interface {
	Name() string

	// Annotations 第一个为主注解，其余为辅助注解
	// 一个注解只能绑定一个生成器
	Annotations() []string

	SupportedTargets() []TargetKind

	ParamDefs() []ParamDef

	// NewParams 返回参数结构体指针，nil 表示没有参数
	NewParams() any

	// Priority 数字越小越靠前，决定执行和合并顺序
	Priority() int

	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

const defaultPriority = 100

// BaseGenerator 可嵌入的通用实现
type BaseGenerator struct {
	name        string
	annotations []string
	targets     []TargetKind
	paramDefs   []ParamDef
	paramsProto any
	priority    int
}

// BaseOption 配置 BaseGenerator
type BaseOption func(*BaseGenerator)

// WithTargets 设置支持的目标类型，默认只支持结构体
func WithTargets(kinds ...TargetKind) BaseOption {
	return func(g *BaseGenerator) {
		g.targets = kinds
	}
}

// WithParams 从参数结构体的 param 标签生成参数定义
// proto 为零值实例，如 EnumParams{}
func WithParams(proto any) BaseOption {
	return func(g *BaseGenerator) {
		g.paramsProto = proto
		g.paramDefs = ParseParamsFromStruct(proto)
	}
}

// WithParamDefs 直接给出参数定义，NewParams 返回 nil
func WithParamDefs(defs ...ParamDef) BaseOption {
	return func(g *BaseGenerator) {
		g.paramDefs = defs
	}
}

// WithPriority 设置优先级
func WithPriority(priority int) BaseOption {
	return func(g *BaseGenerator) {
		g.priority = priority
	}
}

func NewBaseGenerator(name string, annotations []string, opts ...BaseOption) *BaseGenerator {
	g := &BaseGenerator{
		name:        name,
		annotations: annotations,
		targets:     []TargetKind{TargetStruct},
		priority:    defaultPriority,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *BaseGenerator) Name() string { return g.name }

func (g *BaseGenerator) Annotations() []string { return g.annotations }

// PrimaryAnnotation 主注解，没有注解时为空
func (g *BaseGenerator) PrimaryAnnotation() string {
	if len(g.annotations) == 0 {
		return ""
	}
	return g.annotations[0]
}

func (g *BaseGenerator) SupportedTargets() []TargetKind { return g.targets }

func (g *BaseGenerator) ParamDefs() []ParamDef { return g.paramDefs }

func (g *BaseGenerator) Priority() int { return g.priority }

// NewParams 每次返回参数结构体的新指针
func (g *BaseGenerator) NewParams() any {
	if g.paramsProto == nil {
		return nil
	}
	typ := reflect.TypeOf(g.paramsProto)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}
