package enumimpl

import (
	"go/ast"
	"go/token"
	"path"
	"strings"

	"github.com/donutnomad/enumgen/internal/pkgresolver"
	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/gg"
	"github.com/samber/lo"
)

// Member 一个生成的方法或包级函数
type Member struct {
	Op      OpKind
	Foreign bool // 外部构造函数
	Variant string
	Name    string
	Doc     string
	Pos     token.Pos // 对应指令的位置

	node any
}

// Output 一个联合类型的全部生成结果
// Members 按变体顺序、变体内按指令顺序排列，Foreign 单独收集
type Output struct {
	Schema  *UnionSchema
	Layout  *Layout
	Members []*Member
	Foreign []*Member
	Imports []pkgresolver.FileImport
}

// ExpandOptions 展开选项
type ExpandOptions struct {
	Docs *DocTemplates

	// Imports 模板文件的导入表，key 为文件内使用的包名
	Imports map[string]pkgresolver.FileImport
}

// variantUnit 生成单个变体的操作时共享的信息
type variantUnit struct {
	union   *UnionSchema
	variant *VariantSchema
	shape   *PayloadShape
	tag     string // 判别值常量
	slot    string // 载荷槽字段，空载荷为空
	recv    string // 方法接收者名
	local   string // 构造函数中的局部变量名
}

func (v *variantUnit) member(op OpKind, name string, node any) *Member {
	return &Member{
		Op:      op,
		Variant: v.variant.Name,
		Name:    name,
		node:    node,
	}
}

// Expand 生成联合类型的全部定义
// 任何错误都会放弃整个联合类型，不产生部分输出
func Expand(u *UnionSchema, opts ExpandOptions) (*Output, error) {
	docs := opts.Docs
	if docs == nil {
		var err error
		if docs, err = NewDocTemplates(nil); err != nil {
			return nil, err
		}
	}
	importNames := lo.Keys(opts.Imports)

	tagType := tagTypeName(u)
	consts := lo.Map(u.Variants, func(v *VariantSchema, _ int) string {
		return tagConstName(tagType, v.Name)
	})

	// 包级名称
	pkgNames := newNameSet(u.Fset, "包级名称")
	for _, name := range fileDecls(u.File) {
		if name != u.Template {
			pkgNames.reserve(name, "源文件中已有的声明")
		}
	}
	pkgNames.reserve(u.Template, "模板结构体")
	if err := pkgNames.claim(u.Name, "联合类型", u.Pos); err != nil {
		return nil, err
	}
	if err := pkgNames.claim(tagType, "判别类型", u.Pos); err != nil {
		return nil, err
	}
	for i, c := range consts {
		if err := pkgNames.claim(c, "变体 "+u.Variants[i].Name+" 的判别值", u.Variants[i].Pos); err != nil {
			return nil, err
		}
	}

	// 解析指令和载荷
	reserved := append([]string{u.Name, tagType}, importNames...)
	reserved = append(reserved, consts...)

	directives := make([]*Directives, len(u.Variants))
	shapes := make([]*PayloadShape, len(u.Variants))
	for i, v := range u.Variants {
		d, err := ParseDirectives(u.Fset, v.Annotations)
		if err != nil {
			return nil, err
		}
		shape, err := AnalyzeShape(u.Fset, v.Payload, reserved...)
		if err != nil {
			return nil, err
		}
		directives[i], shapes[i] = d, shape
	}

	layout := newLayout(u, shapes)
	doc, err := docs.Render(DocLayout, DocData{Union: u.Name, Template: u.Template})
	if err != nil {
		return nil, err
	}
	layout.Doc = doc

	// 方法名不能与字段重名
	methodNames := newNameSet(u.Fset, "方法")
	methodNames.reserve("tag", "判别字段")
	for _, name := range unionMethods(u.File, u.Name) {
		methodNames.reserve(name, "源文件中已有的方法")
	}
	for _, s := range layout.Slots {
		if err := methodNames.claim(s.Name, "变体 "+s.Variant+" 的载荷槽", u.Pos); err != nil {
			return nil, err
		}
	}

	taken := lo.SliceToMap(reserved, func(name string) (string, bool) { return name, true })
	taken["ok"] = true
	for _, s := range shapes {
		for _, f := range s.Fields {
			taken[f.Param] = true
		}
	}
	recv := pickName(taken, receiverCandidates(u.Name)...)

	out := &Output{Schema: u, Layout: layout}
	for i, v := range u.Variants {
		unit := &variantUnit{
			union:   u,
			variant: v,
			shape:   shapes[i],
			tag:     consts[i],
			recv:    recv,
		}
		if !shapes[i].IsEmpty() {
			unit.slot = slotName(v.Name)
		}
		unit.local = pickName(taken, "v", "val", "result")

		d := directives[i]
		for _, kind := range d.Order {
			var m *Member
			switch kind {
			case OpIs:
				m = genIs(unit, d.Is)
			case OpAsRef:
				m = genAsRef(unit, d.AsRef)
			case OpAsRefMut:
				m = genAsRefMut(unit, d.AsRefMut)
			case OpInto:
				m = genInto(unit, d.Into)
			case OpFrom:
				switch c := d.From.(type) {
				case LocalConstruction:
					m = genFrom(unit, c)
				case ForeignConstruction:
					m = genForeignFrom(unit)
				}
			}
			m.Pos = d.PosOf(kind)

			names := methodNames
			if kind == OpFrom {
				names = pkgNames
			}
			if err := names.claim(m.Name, "变体 "+v.Name+" 的 "+kind.String(), m.Pos); err != nil {
				return nil, err
			}

			m.Doc, err = docs.Render(docKey(kind, m.Foreign), DocData{
				Name:     m.Name,
				Union:    u.Name,
				Template: u.Template,
				Variant:  v.Name,
				Recv:     recv,
				Op:       kind.String(),
				Fields:   shapes[i].Triple("").Pattern,
				Types:    shapes[i].Triple("").Types,
			})
			if err != nil {
				return nil, err
			}

			if m.Foreign {
				out.Foreign = append(out.Foreign, m)
			} else {
				out.Members = append(out.Members, m)
			}
		}
	}

	out.Imports = referencedImports(u.Variants, opts.Imports)
	return out, nil
}

// Render 将结果写入 gg 定义：联合类型、成员、外部构造函数
func (o *Output) Render(gen *gg.Generator) {
	for _, imp := range o.Imports {
		// 包名与路径末段不同时显式写出别名
		if imp.Alias != "" || imp.Name != path.Base(imp.Path) {
			gen.PAlias(imp.Path, imp.Name)
		} else {
			gen.P(imp.Path)
		}
	}

	group := gen.Body()
	o.Layout.render(group, o.Schema)
	for _, m := range o.Members {
		m.render(group)
	}
	for _, m := range o.Foreign {
		m.render(group)
	}
}

func (m *Member) render(group *gg.Group) {
	group.AddLine()
	appendDoc(group, m.Doc)
	group.Append(m.node)
}

// receiverCandidates 接收者名候选，优先使用类型名首字母
func receiverCandidates(union string) []string {
	first := strings.ToLower(string([]rune(utils.LowerFirst(union))[0]))
	return []string{first, "u", "x", "self", "recv"}
}

// fileDecls 源文件中的包级声明名
func fileDecls(file *ast.File) []string {
	if file == nil {
		return nil
	}
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}
	return lo.Filter(names, func(n string, _ int) bool { return n != "_" && n != "init" })
}

// unionMethods 源文件中接收者为联合类型的方法名
func unionMethods(file *ast.File, union string) []string {
	if file == nil {
		return nil
	}
	var names []string
	for _, decl := range file.Decls {
		d, ok := decl.(*ast.FuncDecl)
		if !ok || d.Recv == nil || len(d.Recv.List) == 0 {
			continue
		}
		if receiverBase(d.Recv.List[0].Type) == union {
			names = append(names, d.Name.Name)
		}
	}
	return names
}

// receiverBase 去掉指针和类型参数后的接收者类型名
func receiverBase(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
