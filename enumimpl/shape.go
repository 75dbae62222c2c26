package enumimpl

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"strings"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/samber/lo"
)

// ShapeKind 载荷形态
type ShapeKind int

const (
	ShapeEmpty      ShapeKind = iota // 无字段
	ShapePositional                  // 按位置引用的字段
	ShapeNamed                       // 具名字段
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeEmpty:
		return "empty"
	case ShapePositional:
		return "positional"
	case ShapeNamed:
		return "named"
	}
	return "unknown"
}

// Field 载荷中的一个字段
type Field struct {
	Ref   string   // 载荷槽中的字段名，声明名或 arg0, arg1...
	Param string   // 生成代码中的参数和结果名
	Type  string   // 类型源码
	Expr  ast.Expr // 类型表达式
}

// PayloadShape 变体载荷，分析后不再改变
type PayloadShape struct {
	Kind   ShapeKind
	Fields []Field
}

// Triple 所有生成器共用的 (类型列表, 解构模式, 返回表达式)
type Triple struct {
	Types   []string
	Pattern []string
	Values  []string
}

// AnalyzeShape 分析变体字段的类型
//
//	struct{}               -> Empty
//	struct{ _, _ float64 } -> Positional([float64, float64])
//	struct{ X, Y int }     -> Named([(X, int), (Y, int)])
//	T                      -> Positional([T])
//
// reserved 中的名称不会被用作参数名
func AnalyzeShape(fset *token.FileSet, expr ast.Expr, reserved ...string) (*PayloadShape, error) {
	shape := &PayloadShape{}

	st, ok := expr.(*ast.StructType)
	if !ok {
		typ, err := typeString(fset, expr)
		if err != nil {
			return nil, err
		}
		shape.Kind = ShapePositional
		shape.Fields = []Field{{Ref: "arg0", Type: typ, Expr: expr}}
		shape.assignParams(reserved)
		return shape, nil
	}

	var blank, named int
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, newDiagnostic(fset.Position(f.Pos()), ErrUnsupportedPayload,
				"载荷不支持嵌入字段")
		}
		typ, err := typeString(fset, f.Type)
		if err != nil {
			return nil, err
		}
		for _, name := range f.Names {
			if name.Name == "_" {
				blank++
			} else {
				named++
			}
			shape.Fields = append(shape.Fields, Field{Ref: name.Name, Type: typ, Expr: f.Type})
		}
	}

	switch {
	case blank == 0 && named == 0:
		shape.Kind = ShapeEmpty
	case named == 0:
		shape.Kind = ShapePositional
		for i := range shape.Fields {
			shape.Fields[i].Ref = fmt.Sprintf("arg%d", i)
		}
	case blank == 0:
		shape.Kind = ShapeNamed
	default:
		return nil, newDiagnostic(fset.Position(st.Pos()), ErrUnsupportedPayload,
			"载荷不能同时包含具名字段和 _ 字段")
	}
	shape.assignParams(reserved)
	return shape, nil
}

// assignParams 为字段分配参数名，避开关键字、ok 和保留名称
func (s *PayloadShape) assignParams(reserved []string) {
	taken := lo.SliceToMap(reserved, func(name string) (string, bool) {
		return name, true
	})
	taken["ok"] = true

	for i := range s.Fields {
		f := &s.Fields[i]
		base := f.Ref
		if s.Kind == ShapeNamed {
			base = utils.SafeIdent(utils.LowerCamelCase(f.Ref))
			if base == "" || base == "_" {
				base = fmt.Sprintf("arg%d", i)
			}
		}
		name := base
		if taken[name] {
			name = base + "Val"
		}
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s%d", base, n)
		}
		taken[name] = true
		f.Param = name
	}
}

// Len 字段数量
func (s *PayloadShape) Len() int {
	return len(s.Fields)
}

// IsEmpty 是否为无字段载荷
func (s *PayloadShape) IsEmpty() bool {
	return s.Kind == ShapeEmpty
}

// Triple 以 base 为载荷槽表达式生成三元组
func (s *PayloadShape) Triple(base string) Triple {
	var t Triple
	for _, f := range s.Fields {
		t.Types = append(t.Types, f.Type)
		t.Pattern = append(t.Pattern, f.Param)
		t.Values = append(t.Values, base+"."+f.Ref)
	}
	return t
}

// SlotType 载荷槽的结构体类型源码
func (s *PayloadShape) SlotType() string {
	if s.IsEmpty() {
		return "struct{}"
	}
	fields := lo.Map(s.Fields, func(f Field, _ int) string {
		return f.Ref + " " + f.Type
	})
	return "struct {\n" + strings.Join(fields, "\n") + "\n}"
}

// TypeKey 外部构造函数使用的类型名片段，空载荷为 Unit
func (s *PayloadShape) TypeKey() string {
	if s.IsEmpty() {
		return "Unit"
	}
	var b strings.Builder
	for _, f := range s.Fields {
		b.WriteString(typeKey(f.Expr))
	}
	return b.String()
}

func typeString(fset *token.FileSet, expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, expr); err != nil {
		return "", fmt.Errorf("格式化类型失败: %w", err)
	}
	return buf.String(), nil
}
