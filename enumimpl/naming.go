package enumimpl

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/donutnomad/enumgen/internal/utils"
)

// renamedIdent 将指令中的名称转换为符合可见性的标识符
// create_cuboid -> CreateCuboid（pub）/ createCuboid
func renamedIdent(rename string, public bool) string {
	return utils.Exported(utils.UpperCamelCase(rename), public)
}

// validRename 名称只能包含字母、数字和下划线，且转换后是合法的标识符
func validRename(rename string, public bool) bool {
	if rename == "" || !token.IsIdentifier(strings.ReplaceAll(rename, "-", "_")) {
		return false
	}
	ident := renamedIdent(rename, public)
	return token.IsIdentifier(ident)
}

// memberName 计算操作生成的方法或函数名
func memberName(u *UnionSchema, variant string, kind OpKind, cfg *ClassicConfig) string {
	if cfg != nil && cfg.Rename != "" {
		return renamedIdent(cfg.Rename, cfg.Public)
	}
	public := cfg != nil && cfg.Public
	v := utils.UpperFirst(variant)
	switch kind {
	case OpIs:
		return utils.Exported("Is"+v, public)
	case OpAsRef:
		return utils.Exported("As"+v, public)
	case OpAsRefMut:
		return utils.Exported("As"+v+"Mut", public)
	case OpInto:
		return utils.Exported("Into"+v, public)
	case OpFrom:
		return utils.Exported(u.Name+"From"+v, public)
	}
	return ""
}

// foreignName 外部构造函数名，由载荷类型决定，可见性跟随联合类型
func foreignName(u *UnionSchema, shape *PayloadShape) string {
	return utils.Exported(u.Name+"From"+shape.TypeKey(), u.Exported())
}

// typeKey 由类型表达式推导出可用于标识符的名称片段
// float64 -> Float64, []byte -> ByteSlice, *pkg.T -> PkgTPtr
func typeKey(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return utils.UpperFirst(e.Name)
	case *ast.SelectorExpr:
		return typeKey(e.X) + utils.UpperFirst(e.Sel.Name)
	case *ast.StarExpr:
		return typeKey(e.X) + "Ptr"
	case *ast.ParenExpr:
		return typeKey(e.X)
	case *ast.ArrayType:
		if e.Len == nil {
			return typeKey(e.Elt) + "Slice"
		}
		if lit, ok := e.Len.(*ast.BasicLit); ok {
			return typeKey(e.Elt) + "Array" + lit.Value
		}
		return typeKey(e.Elt) + "Array"
	case *ast.MapType:
		return "Map" + typeKey(e.Key) + typeKey(e.Value)
	case *ast.ChanType:
		return typeKey(e.Value) + "Chan"
	case *ast.FuncType:
		return "Func"
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return "Any"
		}
		return "Interface"
	case *ast.StructType:
		return "Struct"
	case *ast.IndexExpr:
		return typeKey(e.X) + typeKey(e.Index)
	case *ast.IndexListExpr:
		key := typeKey(e.X)
		for _, idx := range e.Indices {
			key += typeKey(idx)
		}
		return key
	}
	return "Value"
}

// nameSet 检测生成标识符的冲突
type nameSet struct {
	fset  *token.FileSet
	what  string
	names map[string]string // 名称 -> 来源描述
}

func newNameSet(fset *token.FileSet, what string) *nameSet {
	return &nameSet{fset: fset, what: what, names: make(map[string]string)}
}

// reserve 预留不可使用的名称
func (s *nameSet) reserve(name, owner string) {
	s.names[name] = owner
}

// claim 占用名称，已被占用时返回 name-conflict
func (s *nameSet) claim(name, owner string, pos token.Pos) error {
	if prev, ok := s.names[name]; ok {
		return newDiagnostic(s.fset.Position(pos), ErrNameConflict,
			"%s %s 重复: %s 与 %s", s.what, name, owner, prev)
	}
	s.names[name] = owner
	return nil
}

// pickName 从候选中选择第一个未被占用的名称
func pickName(taken map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if c != "" && !taken[c] && !token.IsKeyword(c) {
			return c
		}
	}
	base := candidates[len(candidates)-1]
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if !taken[name] {
			return name
		}
	}
}
