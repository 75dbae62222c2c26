package plugin

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsFromStruct(t *testing.T) {
	type TestParams struct {
		Name   string `param:"name=name,required=true,default=,description=Union name"`
		Output string `param:"name=output,required=false,default=$FILE_enum,description=Output file"`
		Doc    string `param:"name=doc,required=false,default=,description=Doc with\\, comma"`
		Skip   string // 没有tag,应该被忽略
	}

	params := ParseParamsFromStruct(TestParams{})
	require.Len(t, params, 3)

	assert.Equal(t, ParamDef{Name: "name", Required: true, Description: "Union name"}, params[0])
	assert.Equal(t, ParamDef{Name: "output", Default: "$FILE_enum", Description: "Output file"}, params[1])
	assert.Equal(t, "Doc with, comma", params[2].Description)

	assert.Len(t, ParseParamsFromStruct(&TestParams{}), 3, "指针同样支持")
	assert.Empty(t, ParseParamsFromStruct(struct{}{}))
	assert.Nil(t, ParseParamsFromStruct(42))
}

func TestParseAnnotationParams(t *testing.T) {
	type TestParams struct {
		Name   string `param:"name=name,required=false,default=,description=名称"`
		Tag    string `param:"name=tag,required=false,default=uint8,description=判别字段类型"`
		Count  int    `param:"name=count,required=false,default=10,description=数量"`
		Enable bool   `param:"name=enable,required=false,default=false,description=启用"`
	}

	tests := []struct {
		name    string
		comment string
		want    TestParams
	}{
		{
			name:    "反引号格式",
			comment: "// @Test(name=`Shape`)",
			want:    TestParams{Name: "Shape", Tag: "uint8", Count: 10},
		},
		{
			name:    "双引号格式",
			comment: `// @Test(name="Shape")`,
			want:    TestParams{Name: "Shape", Tag: "uint8", Count: 10},
		},
		{
			name:    "多个参数",
			comment: "// @Test(name=Shape, tag=`uint16`, count=20, enable=true, output=x)",
			want:    TestParams{Name: "Shape", Tag: "uint16", Count: 20, Enable: true},
		},
		{
			name:    "无参数使用默认值",
			comment: "// @Test()",
			want:    TestParams{Tag: "uint8", Count: 10},
		},
	}

	paramDefs := ParseParamsFromStruct(TestParams{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotations := ParseAnnotations(tt.comment)
			require.NotEmpty(t, annotations)

			var params TestParams
			require.NoError(t, ParseAnnotationParams(annotations[0], &params, paramDefs))
			assert.Equal(t, tt.want, params)
		})
	}
}

func TestParseAnnotationParams_Errors(t *testing.T) {
	type TestParams struct {
		Name  string `param:"name=name,required=true,default=,description=名称"`
		Count int    `param:"name=count,required=false,default=1,description=数量"`
	}
	paramDefs := ParseParamsFromStruct(TestParams{})

	tests := []struct {
		name    string
		comment string
		wantErr string
	}{
		{name: "未知参数", comment: "// @Test(name=A, nmae=B, zz=1)", wantErr: "未知参数: nmae, zz"},
		{name: "缺少必填参数", comment: "// @Test(count=2)", wantErr: "缺少必填参数 name"},
		{name: "类型错误", comment: "// @Test(name=A, count=many)", wantErr: "参数 count"},
		{name: "括号未闭合", comment: "// @Test(name=A, count=2", wantErr: "没有闭合"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params TestParams
			err := ParseAnnotationParams(ParseAnnotations(tt.comment)[0], &params, paramDefs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBaseGenerator_NewParams(t *testing.T) {
	type TestParams struct {
		Name  string `param:"name=name,required=false,default=,description=名称"`
		Count int    `param:"name=count,required=false,default=10,description=数量"`
	}

	gen := NewBaseGenerator("test", []string{"Test"}, WithParams(TestParams{}))

	p1, ok := gen.NewParams().(*TestParams)
	require.True(t, ok)
	p2, ok := gen.NewParams().(*TestParams)
	require.True(t, ok)
	assert.NotSame(t, p1, p2, "NewParams 应该返回不同的实例")

	p1.Name = "A"
	assert.Empty(t, p2.Name, "修改一个实例不应该影响另一个实例")

	assert.Nil(t, NewBaseGenerator("plain", nil).NewParams())
	assert.Equal(t, 100, gen.Priority())
	assert.Equal(t, 5, NewBaseGenerator("p", nil, WithPriority(5)).Priority())
}

func TestParseTargetParams(t *testing.T) {
	type TestParams struct {
		Name string `param:"name=name,required=true,default=,description=名称"`
	}
	gen := &testGenerator{
		BaseGenerator: *NewBaseGenerator("test", []string{"Test"}, WithParams(TestParams{})),
	}

	result, err := NewScanner().ScanSource("a.go", "package a\n\n// @Test(name=Ok)\ntype ok struct{}\n\n// @Test\ntype bad struct{}\n")
	require.NoError(t, err)
	require.Len(t, result.Types, 2)

	errs := parseTargetParams(gen, result.Types)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "a.go:7:6")
	assert.Equal(t, TestParams{Name: "Ok"}, result.Types[0].ParsedParams)
	assert.Nil(t, result.Types[1].ParsedParams)
}

func TestSetFieldValue(t *testing.T) {
	var v struct {
		Small int8
		Size  uint16
		Ratio float64
		On    bool
	}
	rv := reflect.ValueOf(&v).Elem()

	require.NoError(t, setFieldValue(rv.Field(0), "16"))
	require.NoError(t, setFieldValue(rv.Field(1), "300"))
	require.NoError(t, setFieldValue(rv.Field(2), "0.5"))
	require.NoError(t, setFieldValue(rv.Field(3), "1"))
	assert.Equal(t, int8(16), v.Small)
	assert.Equal(t, uint16(300), v.Size)
	assert.Equal(t, 0.5, v.Ratio)
	assert.True(t, v.On)

	assert.ErrorContains(t, setFieldValue(rv.Field(0), "200"), "超出")
	assert.ErrorContains(t, setFieldValue(rv.Field(1), "70000"), "超出")
	assert.Error(t, setFieldValue(rv.Field(3), "maybe"))

	require.NoError(t, setFieldValue(rv.Field(1), ""))
	assert.Zero(t, v.Size)
}
