package enumimpl

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/donutnomad/gg"
	"github.com/stretchr/testify/require"
)

// fieldAnnotations 解析单个字段尾注释中的注解
func fieldAnnotations(t *testing.T, comment string) (*token.FileSet, []*plugin.CommentAnnotation) {
	t.Helper()
	src := "package p\n\ntype x struct {\n\tA int " + comment + "\n}\n"
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "x.go", src, parser.ParseComments)
	require.NoError(t, err)

	st := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.StructType)
	field := st.Fields.List[0]
	return fset, plugin.ParseCommentAnnotations(field.Doc, field.Comment)
}

// scanTarget 从源码中读取唯一的 @EnumImpl 目标
func scanTarget(t *testing.T, src string) *plugin.AnnotatedTarget {
	t.Helper()
	res, err := plugin.NewScanner(plugin.WithAnnotationFilter(AnnotationName)).ScanSource("shapes.go", src)
	require.NoError(t, err)
	require.Len(t, res.Types, 1)
	return res.Types[0]
}

// expandSource 直接展开源码中的联合类型，不解析导入
func expandSource(t *testing.T, src string) (*Output, error) {
	t.Helper()
	at := scanTarget(t, src)
	ann := plugin.GetAnnotation(at.Annotations, AnnotationName)
	require.NotNil(t, ann)

	schema, err := NewUnionSchema(at.Target, ann.GetParam("name"))
	if err != nil {
		return nil, err
	}
	return Expand(schema, ExpandOptions{})
}

// renderOutput 渲染并格式化
func renderOutput(t *testing.T, out *Output) string {
	t.Helper()
	gen := gg.New()
	gen.SetPackage(out.Schema.File.Name.Name)
	out.Render(gen)

	src, err := utils.FormatSource("out.go", []byte(gen.String()))
	require.NoError(t, err, gen.String())
	return string(src)
}
