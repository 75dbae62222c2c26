package plugin

import (
	"go/ast"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// directivePrefix 包级配置注释的前缀，// 与 go: 之间的空格可有可无
const directivePrefix = "go:enumgen:"

// packageDirectives 返回文件中每条 go:enumgen: 注释的参数部分
func packageDirectives(file *ast.File) []string {
	var lines []string
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimPrefix(c.Text, "//")
			text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
			if rest, ok := strings.CutPrefix(strings.TrimSpace(text), directivePrefix); ok {
				lines = append(lines, strings.TrimSpace(rest))
			}
		}
	}
	return lines
}

// parseConfigLine 解析一条 go:enumgen: 配置
//
//	-output `$FILE_enum`                        所有插件
//	plugin:enumimpl -output `enums`             之后的 -output 只对 enumimpl 生效
//	-output=`$FILE_enum`                        等号写法
//
// 没有任何输出配置时返回 nil
func parseConfigLine(line string, filePath string) *PackageConfig {
	cfg := &PackageConfig{
		PackageDir:    packageDir(filePath),
		PluginOutputs: make(map[string]string),
	}

	var scope string
	args := splitConfigArgs(line)
	for len(args) > 0 {
		arg := args[0]
		args = args[1:]

		if name, ok := strings.CutPrefix(arg, "plugin:"); ok {
			scope = strings.ToLower(name)
			continue
		}
		flag, value, inline := strings.Cut(arg, "=")
		if flag != "-output" {
			continue
		}
		if !inline {
			if len(args) == 0 {
				break
			}
			value, args = args[0], args[1:]
		}
		if scope == "" {
			cfg.DefaultOutput = unquoteArg(value)
		} else {
			cfg.PluginOutputs[scope] = unquoteArg(value)
		}
	}

	if cfg.DefaultOutput == "" && len(cfg.PluginOutputs) == 0 {
		return nil
	}
	return cfg
}

// splitConfigArgs 按空白分割，引号内的空白不分割，引号保留
func splitConfigArgs(line string) []string {
	var (
		args  []string
		start = -1
		quote rune
	)
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '`' || r == '"' || r == '\'':
			quote = r
			if start < 0 {
				start = i
			}
		case unicode.IsSpace(r):
			if start >= 0 {
				args = append(args, line[start:i])
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		args = append(args, line[start:])
	}
	return args
}

func unquoteArg(s string) string {
	if len(s) >= 2 && strings.IndexByte("`\"'", s[0]) >= 0 && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// merge 合并同一包中另一个文件的配置，后出现的值覆盖先出现的
// 返回被不同值覆盖的插件名，默认输出用 "" 表示
func (c *PackageConfig) merge(other *PackageConfig) []string {
	var overridden []string
	if other.DefaultOutput != "" {
		if c.DefaultOutput != "" && c.DefaultOutput != other.DefaultOutput {
			overridden = append(overridden, "")
		}
		c.DefaultOutput = other.DefaultOutput
	}
	if c.PluginOutputs == nil {
		c.PluginOutputs = make(map[string]string)
	}
	for _, name := range slices.Sorted(maps.Keys(other.PluginOutputs)) {
		out := other.PluginOutputs[name]
		if prev, ok := c.PluginOutputs[name]; ok && prev != out {
			overridden = append(overridden, name)
		}
		c.PluginOutputs[name] = out
	}
	return overridden
}

// SkipDir 扫描和监听时跳过的目录：隐藏目录、_ 开头的目录、vendor 和 testdata
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

// packageDir 返回文件所在的包目录
func packageDir(filePath string) string {
	dir := filepath.Dir(filePath)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
