package pkgresolver

import (
	"go/ast"
	"strconv"
)

// FileImport 源文件中的一条导入
type FileImport struct {
	Name  string // 文件内引用该包使用的名称
	Path  string // 导入路径
	Alias string // 显式别名，未指定时为空
}

// FileImports 解析文件的导入表
// 返回 map[文件内使用的包名] -> 导入信息，空白导入和点导入被忽略
func (r *PackageNameResolver) FileImports(file *ast.File) map[string]FileImport {
	result := make(map[string]FileImport, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := FileImport{Path: path}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			imp.Alias = spec.Name.Name
			imp.Name = spec.Name.Name
		} else {
			name, err := r.GetPackageName(path)
			if err != nil {
				continue
			}
			imp.Name = name
		}
		result[imp.Name] = imp
	}
	return result
}
