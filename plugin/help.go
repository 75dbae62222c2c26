package plugin

import (
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Usager 可选接口，生成器在帮助文本中追加的用法说明
type Usager interface {
	Usage() string
}

const outputParamHelp = "output - 输出文件路径（支持模板变量 $FILE, $PACKAGE, $TYPE）"

var helpTemplate = template.Must(template.New("help").Funcs(sprig.TxtFuncMap()).Parse(
	`{{- range . }}{{ $main := .Main }}  @{{ .Main }} - {{ .Name }}
{{- if .Aux }}
    辅助注解: @{{ join ", @" .Aux }}
{{- end }}
    支持目标: {{ join ", " .Targets }}
    参数:
{{- if not .HasOutput }}
      ` + outputParamHelp + `
{{- end }}
{{- range .Params }}
      {{ .Name }}{{ if .Required }} (必填){{ end }}{{ if .Default }} [默认: {{ .Default }}]{{ end }} - {{ .Description }}
{{- end }}
    示例:
      @{{ .Main }}
      @{{ .Main }}(output=$FILE_enum.go)
      @{{ .Main }}(output=$TYPE_enum.go)
{{- range $i, $p := .Params }}{{ if and (lt $i 2) $p.Default }}
      @{{ $main }}({{ $p.Name }}={{ $p.Default }})
{{- end }}{{ end }}
{{- with .Usage }}
{{ indent 4 . }}
{{- end }}

{{ end }}`))

type helpEntry struct {
	Main      string
	Name      string
	Aux       []string
	Targets   []string
	Params    []ParamDef
	HasOutput bool
	Usage     string
}

// FormatHelpText 为所有注册的生成器生成帮助文本
// 第一个注解为主注解，其余为辅助注解（如字段级 @Variant）
func FormatHelpText(registry *Registry) string {
	var entries []helpEntry
	for _, gen := range registry.Generators() {
		anns := gen.Annotations()
		if len(anns) == 0 {
			continue
		}
		e := helpEntry{
			Main:    anns[0],
			Name:    gen.Name(),
			Aux:     anns[1:],
			Params:  gen.ParamDefs(),
			Targets: make([]string, 0, len(gen.SupportedTargets())),
			HasOutput: slices.ContainsFunc(gen.ParamDefs(), func(p ParamDef) bool {
				return p.Name == "output"
			}),
		}
		for _, k := range gen.SupportedTargets() {
			e.Targets = append(e.Targets, k.String())
		}
		if u, ok := gen.(Usager); ok {
			e.Usage = strings.TrimSpace(u.Usage())
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return "  (暂无已注册的生成器)\n"
	}

	var sb strings.Builder
	if err := helpTemplate.Execute(&sb, entries); err != nil {
		return "  " + err.Error() + "\n"
	}
	return sb.String()
}
