package enumimpl

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/enumgen/plugin"
	"github.com/samber/lo"
)

// UnionSchema 由模板结构体描述的联合类型
type UnionSchema struct {
	Name       string // 生成的联合类型名
	Template   string // 模板结构体名
	TypeParams string // 声明形式，如 [T any, E error]
	TypeArgs   string // 使用形式，如 [T, E]
	Variants   []*VariantSchema
	Pos        token.Pos

	Fset *token.FileSet
	File *ast.File
}

// VariantSchema 模板结构体中的一个字段
type VariantSchema struct {
	Name        string
	Payload     ast.Expr
	Annotations []*plugin.CommentAnnotation
	Pos         token.Pos
}

// Type 联合类型的使用形式
func (u *UnionSchema) Type() string {
	return u.Name + u.TypeArgs
}

// Exported 联合类型是否导出
func (u *UnionSchema) Exported() bool {
	return ast.IsExported(u.Name)
}

// NewUnionSchema 从注解目标读取联合类型描述
// name 为空时使用首字母大写的模板名
func NewUnionSchema(target *plugin.Target, name string) (*UnionSchema, error) {
	pos := target.Pos()
	spec := target.TypeSpec()
	if target.Kind != plugin.TargetStruct || spec == nil {
		return nil, newDiagnostic(pos, ErrWrongTarget,
			"@%s 只能用于结构体, %s 是 %s", AnnotationName, target.Name, target.Kind)
	}
	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, newDiagnostic(pos, ErrWrongTarget,
			"@%s 只能用于结构体, %s 不是结构体", AnnotationName, target.Name)
	}

	u := &UnionSchema{
		Name:     strings.TrimSpace(name),
		Template: target.Name,
		Pos:      spec.Name.Pos(),
		Fset:     target.Fset,
		File:     target.File,
	}
	if u.Name == "" {
		u.Name = utils.UpperFirst(target.Name)
	}
	if !token.IsIdentifier(u.Name) {
		return nil, newDiagnostic(pos, ErrInvalidRename, "联合类型名 %q 不是合法的标识符", u.Name)
	}
	if u.Name == u.Template {
		return nil, newDiagnostic(pos, ErrNameConflict,
			"联合类型名 %s 与模板结构体同名, 请通过 name 参数指定其他名称", u.Name)
	}

	params, args, err := typeParams(target.Fset, spec.TypeParams)
	if err != nil {
		return nil, err
	}
	u.TypeParams, u.TypeArgs = params, args

	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, newDiagnostic(target.Fset.Position(f.Pos()), ErrUnsupportedPayload,
				"变体必须是具名字段")
		}
		anns := plugin.ParseCommentAnnotations(f.Doc, f.Comment)
		for _, n := range f.Names {
			if n.Name == "_" {
				continue
			}
			u.Variants = append(u.Variants, &VariantSchema{
				Name:        n.Name,
				Payload:     f.Type,
				Annotations: anns,
				Pos:         n.Pos(),
			})
		}
	}
	return u, nil
}

// typeParams 返回类型参数的声明形式和使用形式
func typeParams(fset *token.FileSet, list *ast.FieldList) (string, string, error) {
	if list == nil || len(list.List) == 0 {
		return "", "", nil
	}
	var decl, use []string
	for _, f := range list.List {
		constraint, err := typeString(fset, f.Type)
		if err != nil {
			return "", "", err
		}
		names := lo.Map(f.Names, func(n *ast.Ident, _ int) string { return n.Name })
		decl = append(decl, strings.Join(names, ", ")+" "+constraint)
		use = append(use, names...)
	}
	return "[" + strings.Join(decl, ", ") + "]", "[" + strings.Join(use, ", ") + "]", nil
}
