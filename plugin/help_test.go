package plugin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGenerator 用于测试的 mock 生成器
type mockGenerator struct {
	BaseGenerator
}

func (m *mockGenerator) Generate(ctx *GenerateContext) (*GenerateResult, error) {
	return NewGenerateResult(), nil
}

func newMockGenerator(name string, annotations []string, targets []TargetKind, params []ParamDef) *mockGenerator {
	return &mockGenerator{
		BaseGenerator: *NewBaseGenerator(name, annotations, WithTargets(targets...), WithParamDefs(params...)),
	}
}

func TestFormatHelpText(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newMockGenerator(
		"enumimpl",
		[]string{"EnumImpl", "Variant"},
		[]TargetKind{TargetStruct, TargetInterface, TargetType},
		[]ParamDef{
			{Name: "name", Required: true, Description: "联合类型名称"},
			{Name: "tag", Default: "uint8", Description: "判别字段类型"},
		},
	)))

	helpText := FormatHelpText(registry)

	for _, expected := range []string{
		"@EnumImpl - enumimpl",
		"辅助注解: @Variant",
		"支持目标: struct, interface, type",
		"output - 输出文件路径",
		"name (必填)",
		"tag [默认: uint8]",
		"联合类型名称",
		"示例:",
		"@EnumImpl(output=$FILE_enum.go)",
		"@EnumImpl(output=$TYPE_enum.go)",
		"@EnumImpl(tag=uint8)",
	} {
		assert.Contains(t, helpText, expected)
	}
}

func TestFormatHelpText_MultipleGenerators(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(newMockGenerator("generator2", []string{"Ann2"}, []TargetKind{TargetInterface}, nil))
	registry.MustRegister(newMockGenerator("generator1", []string{"Ann1"}, []TargetKind{TargetStruct}, nil))

	helpText := FormatHelpText(registry)

	assert.Contains(t, helpText, "@Ann1 - generator1")
	assert.Contains(t, helpText, "@Ann2 - generator2")
	assert.Less(t, strings.Index(helpText, "@Ann1"), strings.Index(helpText, "@Ann2"), "同优先级按名称排序")
}

func TestFormatHelpText_EmptyRegistry(t *testing.T) {
	assert.Contains(t, FormatHelpText(NewRegistry()), "(暂无已注册的生成器)")
}

type usageGenerator struct {
	mockGenerator
}

func (usageGenerator) Usage() string {
	return "字段注解:\n  @Variant(pub is)"
}

func TestFormatHelpText_Usage(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(&usageGenerator{*newMockGenerator("gen", []string{"Ann"}, []TargetKind{TargetStruct},
		[]ParamDef{{Name: "output", Description: "输出"}})})

	helpText := FormatHelpText(registry)
	assert.Contains(t, helpText, "    字段注解:\n      @Variant(pub is)")
	assert.Equal(t, 1, strings.Count(helpText, "output - "), "已声明 output 参数时不重复显示")
}
