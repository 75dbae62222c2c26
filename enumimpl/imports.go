package enumimpl

import (
	"go/ast"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/donutnomad/enumgen/internal/pkgresolver"
	"github.com/samber/lo"
)

// referencedImports 载荷类型中引用到的导入，按路径排序
func referencedImports(variants []*VariantSchema, imports map[string]pkgresolver.FileImport) []pkgresolver.FileImport {
	if len(imports) == 0 {
		return nil
	}
	used := make(map[string]pkgresolver.FileImport)
	for _, v := range variants {
		ast.Inspect(v.Payload, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if id, ok := sel.X.(*ast.Ident); ok {
				if imp, ok := imports[id.Name]; ok {
					used[imp.Path] = imp
				}
			}
			return true
		})
	}
	result := lo.Values(used)
	slices.SortFunc(result, func(a, b pkgresolver.FileImport) int {
		return strings.Compare(a.Path, b.Path)
	})
	return result
}

// importResolver 按模块根目录缓存包名解析器
type importResolver struct {
	mu        sync.Mutex
	resolvers map[string]*pkgresolver.PackageNameResolver
}

func newImportResolver() *importResolver {
	return &importResolver{resolvers: make(map[string]*pkgresolver.PackageNameResolver)}
}

// FileImports 返回源文件的导入表
func (r *importResolver) FileImports(filePath string, file *ast.File) map[string]pkgresolver.FileImport {
	if file == nil {
		return nil
	}
	root := moduleRoot(filepath.Dir(filePath))

	r.mu.Lock()
	res, ok := r.resolvers[root]
	if !ok {
		res = pkgresolver.NewPackageNameResolver(root)
		r.resolvers[root] = res
	}
	r.mu.Unlock()

	return res.FileImports(file)
}

// moduleRoot 向上查找 go.mod 所在目录，找不到时返回 dir
func moduleRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for d := abs; ; {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return abs
		}
		d = parent
	}
}
