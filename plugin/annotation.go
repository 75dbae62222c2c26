package plugin

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// annotationMatch 注解及其 @ 在文本中的字节偏移
type annotationMatch struct {
	ann    *Annotation
	offset int
}

// scanAnnotations 扫描文本中的 @Name 与 @Name(args)
// 标识符字符之后的 @ 不算注解，如邮箱地址
// 括号内的引号会被跳过，括号必须在同一行闭合，否则标记为 Unclosed
func scanAnnotations(text string) []annotationMatch {
	var result []annotationMatch
	for i := 0; i < len(text); i++ {
		if text[i] != '@' {
			continue
		}
		if i > 0 {
			if r, _ := utf8.DecodeLastRuneInString(text[:i]); isIdentRune(r) {
				continue
			}
		}
		nameEnd := i + 1
		for nameEnd < len(text) {
			r, size := utf8.DecodeRuneInString(text[nameEnd:])
			if !isIdentRune(r) {
				break
			}
			nameEnd += size
		}
		if nameEnd == i+1 {
			continue
		}

		ann := &Annotation{Name: text[i+1 : nameEnd], Params: map[string]string{}}
		end := nameEnd
		if close, ok := closingParen(text, nameEnd); ok {
			ann.Args = strings.TrimSpace(text[nameEnd+1 : close])
			ann.Params = parseParams(ann.Args)
			end = close + 1
		} else if nameEnd < len(text) && text[nameEnd] == '(' {
			// 未闭合时参数取到行尾
			end = len(text)
			if nl := strings.IndexByte(text[nameEnd:], '\n'); nl >= 0 {
				end = nameEnd + nl
			}
			ann.Args = strings.TrimSpace(text[nameEnd+1 : end])
			ann.Unclosed = true
		} else {
			rest := strings.TrimLeft(text[nameEnd:], " \t")
			ann.DetachedParen = len(rest) < len(text)-nameEnd && strings.HasPrefix(rest, "(")
		}
		ann.Raw = text[i:end]
		result = append(result, annotationMatch{ann: ann, offset: i})
		i = end - 1
	}
	return result
}

// closingParen 返回 text[open] 处左括号对应的右括号
func closingParen(text string, open int) (int, bool) {
	if open >= len(text) || text[open] != '(' {
		return 0, false
	}
	depth := 0
	var quote byte
	for i := open; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '\n':
			return 0, false
		case quote != 0:
			if ch == '\\' && quote == '"' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '`':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseParams 解析参数中的 key=value、key="value" 与 key=`value`
// 其他内容只保留在 Args 中，key 不区分大小写
func parseParams(args string) map[string]string {
	params := make(map[string]string)
	for _, part := range splitTopLevel(args) {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.IndexFunc(key, func(r rune) bool { return !isIdentRune(r) }) >= 0 {
			continue
		}
		value = strings.TrimSpace(value)
		if n := len(value); n >= 2 && (value[0] == '"' || value[0] == '`') && value[n-1] == value[0] {
			value = value[1 : n-1]
		} else if idx := strings.IndexFunc(value, unicode.IsSpace); idx >= 0 {
			value = value[:idx]
		}
		params[strings.ToLower(key)] = value
	}
	return params
}

// splitTopLevel 按引号之外的逗号分割
func splitTopLevel(s string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '`':
			quote = ch
		case ch == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// ParseAnnotations 从注释文本中解析所有注解
func ParseAnnotations(comment string) []*Annotation {
	return lo.Map(scanAnnotations(comment), func(m annotationMatch, _ int) *Annotation {
		return m.ann
	})
}

// ParseAnnotationsFromDoc 从 ast.CommentGroup 中解析注解
func ParseAnnotationsFromDoc(doc *ast.CommentGroup) []*Annotation {
	if doc == nil {
		return nil
	}
	var result []*Annotation
	for _, c := range doc.List {
		result = append(result, ParseAnnotations(c.Text)...)
	}
	return result
}

// CommentAnnotation 带位置的注解
type CommentAnnotation struct {
	*Annotation
	Pos token.Pos // 注解 @ 符号的位置
}

// ParseCommentAnnotations 逐条解析注释中的注解，并记录每个注解的位置
// groups 中的 nil 会被跳过
func ParseCommentAnnotations(groups ...*ast.CommentGroup) []*CommentAnnotation {
	var result []*CommentAnnotation
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			for _, m := range scanAnnotations(c.Text) {
				result = append(result, &CommentAnnotation{
					Annotation: m.ann,
					Pos:        c.Slash + token.Pos(m.offset),
				})
			}
		}
	}
	return result
}

// HasAnnotation 检查是否包含指定注解
func HasAnnotation(annotations []*Annotation, name string) bool {
	return GetAnnotation(annotations, name) != nil
}

// GetAnnotation 获取第一个指定名称的注解
func GetAnnotation(annotations []*Annotation, name string) *Annotation {
	ann, _ := lo.Find(annotations, func(a *Annotation) bool { return a.Name == name })
	return ann
}

// GetParam 获取注解参数
func (a *Annotation) GetParam(key string) string {
	return a.Params[strings.ToLower(key)]
}

// GetParamOr 获取注解参数，如果不存在返回默认值
func (a *Annotation) GetParamOr(key, defaultValue string) string {
	if v, ok := a.Params[strings.ToLower(key)]; ok {
		return v
	}
	return defaultValue
}

// HasParam 检查是否有指定参数
func (a *Annotation) HasParam(key string) bool {
	_, ok := a.Params[strings.ToLower(key)]
	return ok
}
