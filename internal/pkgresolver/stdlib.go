package pkgresolver

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
)

// IsStdLib 判断导入路径是否为可导入的标准库包
func IsStdLib(importPath string) bool {
	_, ok := stdLibDir(importPath)
	return ok
}

// stdLibDir 返回标准库包在 GOROOT 中的目录
// 第一段含点的路径一定不是标准库，internal 和 vendor 包不对外
func stdLibDir(importPath string) (string, bool) {
	if importPath == "" {
		return "", false
	}
	first, _, _ := strings.Cut(importPath, "/")
	if strings.Contains(first, ".") {
		return "", false
	}
	for _, elem := range strings.Split(importPath, "/") {
		if elem == "internal" || elem == "vendor" || elem == "testdata" {
			return "", false
		}
	}

	goroot := build.Default.GOROOT
	if goroot == "" {
		goroot = os.Getenv("GOROOT")
	}
	if goroot == "" {
		return "", false
	}
	dir := filepath.Join(goroot, "src", filepath.FromSlash(importPath))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}
