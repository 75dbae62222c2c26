package pkgresolver

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// PackageNameResolver 将导入路径解析为包声明中的真实包名
// 一个解析器对应一个模块根目录，可并发使用
type PackageNameResolver struct {
	projectRoot string // 包含 go.mod 的目录

	modOnce sync.Once
	modPath string

	names nameCache
}

// NewPackageNameResolver 创建解析器
func NewPackageNameResolver(projectRoot string) *PackageNameResolver {
	return &PackageNameResolver{projectRoot: projectRoot}
}

// GetPackageName 获取导入路径对应的真实包名
// 无法定位或读取包目录时退化为路径最后一段
//
// 示例：
//
//	"net/http" → "http"
//	"github.com/samber/lo" → "lo"
//	".../testdata/gg" → "g2" (package 声明是 g2)
func (r *PackageNameResolver) GetPackageName(importPath string) (string, error) {
	return r.names.load(importPath, func() string {
		dir, err := r.packageDir(importPath)
		if err != nil {
			return path.Base(importPath)
		}
		name, err := ReadPackageName(dir)
		if err != nil {
			return path.Base(importPath)
		}
		return name
	}), nil
}

// packageDir 依次按标准库、当前模块、模块缓存定位包目录
func (r *PackageNameResolver) packageDir(importPath string) (string, error) {
	if dir, ok := stdLibDir(importPath); ok {
		return dir, nil
	}
	if mod := r.modulePath(); mod != "" {
		if importPath == mod {
			return r.projectRoot, nil
		}
		if rel, ok := strings.CutPrefix(importPath, mod+"/"); ok {
			return filepath.Join(r.projectRoot, filepath.FromSlash(rel)), nil
		}
	}
	return findThirdPartyPackage(importPath)
}

func (r *PackageNameResolver) modulePath() string {
	r.modOnce.Do(func() {
		if r.projectRoot != "" {
			r.modPath, _ = getModuleName(r.projectRoot)
		}
	})
	return r.modPath
}

// getModuleName 从go.mod文件获取模块名称
func getModuleName(projectRoot string) (string, error) {
	goModPath := filepath.Join(projectRoot, "go.mod")
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return "", err
	}

	name := modfile.ModulePath(content)
	if name == "" {
		return "", fmt.Errorf("未在 go.mod 中找到模块名称")
	}
	return name, nil
}

// modCacheDir 返回 GOMODCACHE，未设置时使用 GOPATH/pkg/mod
func modCacheDir() (cache, gopath string, err error) {
	gopath = os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("无法获取用户主目录: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	if cache = os.Getenv("GOMODCACHE"); cache == "" {
		cache = filepath.Join(gopath, "pkg", "mod")
	}
	return cache, gopath, nil
}

// findThirdPartyPackage 在模块缓存中查找包目录
// 从最长的前缀开始尝试作为模块路径，同一模块有多个版本时取最高版本
func findThirdPartyPackage(importPath string) (string, error) {
	cache, gopath, err := modCacheDir()
	if err != nil {
		return "", err
	}

	parts := strings.Split(importPath, "/")
	for i := len(parts); i >= 1; i-- {
		modPath := strings.Join(parts[:i], "/")
		escaped, err := module.EscapePath(modPath)
		if err != nil {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(cache, filepath.FromSlash(escaped)+"@*"))
		if err != nil || len(matches) == 0 {
			continue
		}

		dir := filepath.Join(append([]string{latestVersion(matches)}, parts[i:]...)...)
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
	}

	legacy := filepath.Join(gopath, "src", filepath.FromSlash(importPath))
	if _, err := os.Stat(legacy); err == nil {
		return legacy, nil
	}
	return "", fmt.Errorf("未找到第三方包 %s", importPath)
}

// latestVersion 从 GOMODCACHE 的匹配目录中选择语义版本最高的一个
func latestVersion(dirs []string) string {
	return slices.MaxFunc(dirs, func(a, b string) int {
		return semver.Compare(versionOf(a), versionOf(b))
	})
}

func versionOf(dir string) string {
	base := filepath.Base(dir)
	if idx := strings.LastIndex(base, "@"); idx >= 0 {
		return base[idx+1:]
	}
	return ""
}
