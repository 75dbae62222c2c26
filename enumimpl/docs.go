package enumimpl

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/samber/lo"
)

// 文档模板的键
const (
	DocLayout      = "layout"
	DocIs          = "is"
	DocAsRef       = "as_ref"
	DocAsRefMut    = "as_ref_mut"
	DocInto        = "into"
	DocFrom        = "from"
	DocForeignFrom = "foreign_from"
)

var defaultDocTemplates = map[string]string{
	DocLayout:      "{{.Union}} 由 {{.Template}} 生成的联合类型，零值不持有任何变体",
	DocIs:          "{{.Name}} 判断 {{.Union}} 是否为 {{.Variant}} 变体",
	DocAsRef:       "{{.Name}} 返回 {{.Variant}} 变体载荷的副本，不是该变体时 ok 为 false",
	DocAsRefMut:    "{{.Name}} 返回指向 {{.Variant}} 变体载荷的指针，可以原地修改，不是该变体时 ok 为 false",
	DocInto:        "{{.Name}} 取出 {{.Variant}} 变体的载荷，不是该变体时 ok 为 false",
	DocFrom:        "{{.Name}} 构造持有 {{.Variant}} 变体的 {{.Union}}",
	DocForeignFrom: "{{.Name}} 将{{if .Types}} {{join \", \" .Types}} {{else}}空载荷{{end}}转换为 {{.Union}} 的 {{.Variant}} 变体",
}

// DocKeys 返回全部文档模板键
func DocKeys() []string {
	keys := lo.Keys(defaultDocTemplates)
	slices.Sort(keys)
	return keys
}

// DocData 文档模板可以使用的数据
type DocData struct {
	Name     string // 生成的方法或函数名
	Union    string
	Template string
	Variant  string
	Recv     string
	Op       string
	Fields   []string // 参数名
	Types    []string
}

// DocTemplates 生成代码的文档注释模板，使用 sprig 函数
type DocTemplates struct {
	templates map[string]*template.Template
}

// NewDocTemplates 创建文档模板，overrides 覆盖默认模板
func NewDocTemplates(overrides map[string]string) (*DocTemplates, error) {
	for key := range overrides {
		if _, ok := defaultDocTemplates[key]; !ok {
			return nil, fmt.Errorf("未知的文档模板 %q, 可选: %s", key, strings.Join(DocKeys(), ", "))
		}
	}

	d := &DocTemplates{templates: make(map[string]*template.Template)}
	for key, text := range defaultDocTemplates {
		if o, ok := overrides[key]; ok {
			text = o
		}
		tmpl, err := template.New(key).Funcs(sprig.FuncMap()).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("解析文档模板 %s 失败: %w", key, err)
		}
		d.templates[key] = tmpl
	}
	return d, nil
}

// Render 渲染文档，返回去除首尾空白的多行文本
func (d *DocTemplates) Render(key string, data DocData) (string, error) {
	tmpl, ok := d.templates[key]
	if !ok {
		return "", fmt.Errorf("未知的文档模板 %q", key)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染文档模板 %s 失败: %w", key, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// docKey 操作对应的文档模板
func docKey(kind OpKind, foreign bool) string {
	switch kind {
	case OpIs:
		return DocIs
	case OpAsRef:
		return DocAsRef
	case OpAsRefMut:
		return DocAsRefMut
	case OpInto:
		return DocInto
	case OpFrom:
		if foreign {
			return DocForeignFrom
		}
		return DocFrom
	}
	return ""
}
