package pkgresolver

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdataPath = "github.com/donutnomad/enumgen/internal/pkgresolver/testdata"

func findTestProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("未找到项目根目录")
		}
		dir = parent
	}
}

func TestIsStdLib(t *testing.T) {
	tests := []struct {
		importPath string
		want       bool
	}{
		{"fmt", true},
		{"net/http", true},
		{"io/ioutil", true},
		{"crypto/sha256", true},
		{"internal/cpu", false},
		{"vendor/golang.org/x/net/http2/hpack", false},
		{"github.com/samber/lo", false},
		{"golang.org/x/tools", false},
		{"no/such/pkg", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.importPath, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStdLib(tt.importPath))
		})
	}
}

func TestGetPackageName(t *testing.T) {
	resolver := NewPackageNameResolver(findTestProjectRoot(t))

	tests := []struct {
		name       string
		importPath string
		want       string
	}{
		{"stdlib", "fmt", "fmt"},
		{"stdlib nested", "encoding/json", "json"},
		{"stdlib deep", "go/build/constraint", "constraint"},
		{"module root", "github.com/donutnomad/enumgen", "main"},
		{"module package", "github.com/donutnomad/enumgen/enumimpl", "enumimpl"},
		{"internal package", "github.com/donutnomad/enumgen/internal/utils", "utils"},
		{"alias target", testdataPath + "/aliasedpkg", "aliasedpkg"},
		{"mismatched dir", testdataPath + "/gg", "g2"},
		{"unresolvable", "example.invalid/nothing/here", "here"},
		{"empty", "", "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.GetPackageName(tt.importPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPackageNameConcurrent(t *testing.T) {
	resolver := NewPackageNameResolver(findTestProjectRoot(t))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = resolver.GetPackageName(testdataPath + "/gg")
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "g2", got)
	}
	assert.Equal(t, 1, resolver.names.len())
}

func TestReadPackageName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"testdata/aliasedpkg", "aliasedpkg"},
		{"testdata/gg", "g2"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			got, err := ReadPackageName(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ReadPackageName("testdata/missing")
	assert.Error(t, err)
}

func TestReadPackageNameConstrained(t *testing.T) {
	dir := t.TempDir()
	src := "//go:build ignore\n\npackage hidden\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte(src), 0644))

	got, err := ReadPackageName(dir)
	require.NoError(t, err)
	assert.Equal(t, "hidden", got)

	empty := t.TempDir()
	_, err = ReadPackageName(empty)
	assert.Error(t, err)
}

// TestFileImports 解析模板文件的导入表
// 包括显式别名、包名与文件夹名不一致以及应被忽略的空白导入
func TestFileImports(t *testing.T) {
	resolver := NewPackageNameResolver(findTestProjectRoot(t))

	file, err := parser.ParseFile(token.NewFileSet(), "testdata/template.go", nil, parser.ImportsOnly)
	require.NoError(t, err)

	assert.Equal(t, map[string]FileImport{
		"io":   {Name: "io", Path: "io"},
		"time": {Name: "time", Path: "time"},
		"cc":   {Name: "cc", Path: testdataPath + "/aliasedpkg", Alias: "cc"},
		"g2":   {Name: "g2", Path: testdataPath + "/gg"},
	}, resolver.FileImports(file))
}

func TestLatestVersion(t *testing.T) {
	dirs := []string{
		"/mod/github.com/samber/lo@v1.9.0",
		"/mod/github.com/samber/lo@v1.52.0",
		"/mod/github.com/samber/lo@v1.10.1",
	}
	assert.Equal(t, "/mod/github.com/samber/lo@v1.52.0", latestVersion(dirs))
}
