package enumimpl

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

// ErrorKind 诊断的错误类别
// 实现了 error，可以用 errors.Is(err, ErrDuplicateDirective) 判断类别
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

const (
	ErrWrongTarget        ErrorKind = "wrong-target"
	ErrUnknownDirective   ErrorKind = "unknown-directive"
	ErrDuplicateDirective ErrorKind = "duplicate-directive"
	ErrKeywordMisuse      ErrorKind = "keyword-misuse"
	ErrRenameOnForeign    ErrorKind = "rename-on-foreign"
	ErrSyntax             ErrorKind = "syntax"
	ErrInvalidRename      ErrorKind = "invalid-rename"
	ErrUnsupportedPayload ErrorKind = "unsupported-payload"
	ErrNameConflict       ErrorKind = "name-conflict"
)

// Diagnostic 一个联合类型的生成失败信息，带源码位置
type Diagnostic struct {
	Pos  token.Position
	Kind ErrorKind
	Msg  string
}

func (d *Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return d.Msg
	}
	return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
}

func (d *Diagnostic) Unwrap() error {
	return d.Kind
}

type diagnosticJSON struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (d *Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(diagnosticJSON{
		File:    d.Pos.Filename,
		Line:    d.Pos.Line,
		Column:  d.Pos.Column,
		Kind:    string(d.Kind),
		Message: d.Msg,
	})
}

func newDiagnostic(pos token.Position, kind ErrorKind, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Pos:  pos,
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// AsDiagnostic 从错误链中取出 Diagnostic
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// Diagnostics 从错误列表中提取全部 Diagnostic，其他错误被忽略
func Diagnostics(errs []error) []*Diagnostic {
	return lo.FilterMap(errs, func(err error, _ int) (*Diagnostic, bool) {
		return AsDiagnostic(err)
	})
}

// WriteJSON 将诊断写为 JSON 数组
func WriteJSON(w io.Writer, diags []*Diagnostic) error {
	if diags == nil {
		diags = []*Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// Snippet 返回诊断所在的源码行和指向列的 ^
// 制表符原样保留，宽字符按显示宽度对齐；源码为空、位置无效或越界时返回空串
func (d *Diagnostic) Snippet(src []byte) string {
	if len(src) == 0 || !d.Pos.IsValid() || d.Pos.Line < 1 {
		return ""
	}
	lines := bytes.Split(src, []byte("\n"))
	if d.Pos.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(string(lines[d.Pos.Line-1]), "\r")
	col := min(max(d.Pos.Column-1, 0), len(line))

	var caret strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			caret.WriteByte('\t')
			continue
		}
		caret.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	caret.WriteByte('^')
	return line + "\n" + caret.String()
}

// WriteText 逐条输出诊断及源码片段
// readFile 为 nil 或读取失败时只输出诊断本身
func WriteText(w io.Writer, diags []*Diagnostic, readFile func(string) ([]byte, error)) error {
	cache := make(map[string][]byte)
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "%s [%s]\n", d.Error(), d.Kind); err != nil {
			return err
		}
		if readFile == nil || d.Pos.Filename == "" {
			continue
		}
		src, ok := cache[d.Pos.Filename]
		if !ok {
			var err error
			if src, err = readFile(d.Pos.Filename); err != nil {
				src = nil
			}
			cache[d.Pos.Filename] = src
		}
		if snippet := d.Snippet(src); snippet != "" {
			if _, err := fmt.Fprintf(w, "%s\n", indentLines(snippet, "    ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func indentLines(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
