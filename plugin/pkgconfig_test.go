package plugin

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageDirectives(t *testing.T) {
	src := "// go:enumgen: -output `a`\n//go:enumgen: plugin:enumimpl -output b\n\n/* go:enumgen: -output c */\npackage p\n\n// not go:enumgen: here\n"
	file, err := parser.ParseFile(token.NewFileSet(), "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	assert.Equal(t, []string{"-output `a`", "plugin:enumimpl -output b", "-output c"}, packageDirectives(file))
}

func TestParseConfigLineForms(t *testing.T) {
	tests := []struct {
		line        string
		wantDefault string
		wantPlugins map[string]string
	}{
		{line: "-output=`$FILE_enum`", wantDefault: "$FILE_enum", wantPlugins: map[string]string{}},
		{line: "-output 'a b' plugin:X -output=c", wantDefault: "a b", wantPlugins: map[string]string{"x": "c"}},
		{line: "-verbose -output d", wantDefault: "d", wantPlugins: map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cfg := parseConfigLine(tt.line, "/tmp/pkg/a.go")
			require.NotNil(t, cfg)
			assert.Equal(t, tt.wantDefault, cfg.DefaultOutput)
			assert.Equal(t, tt.wantPlugins, cfg.PluginOutputs)
			assert.Equal(t, "/tmp/pkg", cfg.PackageDir)
		})
	}

	assert.Nil(t, parseConfigLine("-output", "/tmp/pkg/a.go"), "缺少值")
}

func TestSplitConfigArgs(t *testing.T) {
	assert.Equal(t, []string{"-output", "`a b`", "plugin:x"}, splitConfigArgs("  -output\t`a b`  plugin:x "))
	assert.Equal(t, []string{`"unterminated x`}, splitConfigArgs(`"unterminated x`))
	assert.Empty(t, splitConfigArgs("   "))
}

func TestPackageConfigMerge(t *testing.T) {
	c := &PackageConfig{DefaultOutput: "a", PluginOutputs: map[string]string{"x": "1"}}
	overridden := c.merge(&PackageConfig{
		DefaultOutput: "b",
		PluginOutputs: map[string]string{"x": "2", "y": "3", "z": "4"},
	})
	assert.Equal(t, []string{"", "x"}, overridden)
	assert.Equal(t, "b", c.DefaultOutput)
	assert.Equal(t, map[string]string{"x": "2", "y": "3", "z": "4"}, c.PluginOutputs)

	assert.Empty(t, c.merge(&PackageConfig{PluginOutputs: map[string]string{"y": "3"}}))
	assert.Equal(t, "b", c.DefaultOutput, "空默认值不覆盖")
}

func TestSkipDir(t *testing.T) {
	for _, name := range []string{".git", "_examples", "vendor", "testdata"} {
		assert.True(t, SkipDir(name), name)
	}
	assert.False(t, SkipDir("internal"))
}
