package utils

import (
	"go/token"
	"strings"
	"unicode"
)

// splitWords 按驼峰、数字和分隔符切分名称
// 连续大写视为一个缩略词: HTTPServer -> HTTP Server，复数形式 IDs 保持完整
func splitWords(name string) []string {
	r := []rune(name)
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(r[start:end]))
		}
		start = -1
	}
	lowerAt := func(i int) bool { return i < len(r) && unicode.IsLower(r[i]) }

	for i, c := range r {
		if c == '_' || c == '-' || unicode.IsSpace(c) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := r[i-1]
		if unicode.IsUpper(c) {
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush(i)
				start = i
			case unicode.IsUpper(prev) && lowerAt(i+1) && !(r[i+1] == 's' && !lowerAt(i+2)):
				flush(i)
				start = i
			}
		}
	}
	flush(len(r))
	return words
}

// ToSnakeCase 将驼峰命名转换为蛇形命名，用于 $TYPE 模板变量
func ToSnakeCase(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// UpperCamelCase 将下划线/短横线/空格分隔的名称转换为大驼峰
// 各段内部的大小写保持不变: create_cuboid -> CreateCuboid, make_HTTPClient -> MakeHTTPClient
func UpperCamelCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var buf strings.Builder
	for _, part := range parts {
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		buf.WriteString(string(r))
	}
	return buf.String()
}

// LowerCamelCase 转换为小驼峰，开头的缩略词整体转小写
// 例如: URLPath -> urlPath, ID -> id, create_cuboid -> createCuboid
func LowerCamelCase(name string) string {
	return LowerFirst(UpperCamelCase(name))
}

// LowerFirst 将开头的大写字母串转换为小写
// 若大写串后紧跟小写字母，则保留大写串的最后一个字母: HTTPServer -> httpServer
func LowerFirst(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n == 0 {
		return s
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// UpperFirst 将首字母转换为大写
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Exported 按可见性调整首字母大小写
func Exported(name string, public bool) string {
	if public {
		return UpperFirst(name)
	}
	return LowerFirst(name)
}

// SafeIdent 避免与 Go 关键字冲突
func SafeIdent(name string) string {
	if token.IsKeyword(name) {
		return name + "Val"
	}
	return name
}
