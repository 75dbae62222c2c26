package pkgresolver

import (
	"errors"
	"fmt"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ReadPackageName 读取目录的 package 声明
// 优先按当前平台的构建约束选择文件，全部被排除时退回读取任意源文件
func ReadPackageName(pkgDir string) (string, error) {
	pkg, err := build.Default.ImportDir(pkgDir, 0)
	if err == nil && pkg.Name != "" {
		return pkg.Name, nil
	}
	var noGo *build.NoGoError
	var multi *build.MultiplePackageError
	if err != nil && !errors.As(err, &noGo) && !errors.As(err, &multi) {
		return "", fmt.Errorf("读取目录失败 %s: %w", pkgDir, err)
	}
	return scanPackageClause(pkgDir)
}

// scanPackageClause 按文件名顺序读取第一个可用的包声明
// 测试文件和 documentation 包被忽略
func scanPackageClause(pkgDir string) (string, error) {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return "", fmt.Errorf("读取目录失败 %s: %w", pkgDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	fset := token.NewFileSet()
	for _, name := range names {
		f, err := parser.ParseFile(fset, filepath.Join(pkgDir, name), nil, parser.PackageClauseOnly)
		if err != nil || f.Name == nil || f.Name.Name == "documentation" {
			continue
		}
		return f.Name.Name, nil
	}
	return "", fmt.Errorf("目录 %s 中没有找到 Go 源文件", pkgDir)
}
