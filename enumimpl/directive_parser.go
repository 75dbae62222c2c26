package enumimpl

import (
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/donutnomad/enumgen/plugin"
)

// VariantAnnotation 变体字段上的指令注解名
const VariantAnnotation = "Variant"

const (
	keywordPub  = "pub"
	keywordImpl = "impl"
)

// ParseDirectives 解析变体字段上的全部 @Variant 注解
// 其他注解被忽略；@Variant 与 @Variant() 不产生任何指令
// 括号未闭合或与名称之间有空白时报语法错误
// 同一操作在多个注解中重复出现同样视为重复
func ParseDirectives(fset *token.FileSet, anns []*plugin.CommentAnnotation) (*Directives, error) {
	d := &Directives{}
	for _, ann := range anns {
		if ann.Name != VariantAnnotation {
			continue
		}
		if ann.DetachedParen {
			return nil, newDiagnostic(fset.Position(ann.Pos), ErrSyntax,
				"@%s 与 '(' 之间不能有空白", VariantAnnotation)
		}
		p, err := newDirectiveParser(fset, ann)
		if err != nil {
			return nil, err
		}
		entries, err := p.parse()
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !d.set(e.op, e.classic(), e.construction(), e.pos) {
				return nil, newDiagnostic(fset.Position(e.pos), ErrDuplicateDirective,
					"重复的 %s 指令", e.op)
			}
		}
	}
	return d, nil
}

// directiveEntry 单条指令: [pub|impl] op [= "name"]
type directiveEntry struct {
	keyword   string
	op        OpKind
	rename    string
	hasRename bool
	pos       token.Pos
}

func (e directiveEntry) classic() *ClassicConfig {
	if e.op == OpFrom {
		return nil
	}
	return &ClassicConfig{Public: e.keyword == keywordPub, Rename: e.rename}
}

func (e directiveEntry) construction() Construction {
	if e.op != OpFrom {
		return nil
	}
	if e.keyword == keywordImpl {
		return ForeignConstruction{}
	}
	return LocalConstruction{ClassicConfig{Public: e.keyword == keywordPub, Rename: e.rename}}
}

type directiveToken struct {
	tok token.Token
	lit string
	pos token.Pos
}

// word 标识符和关键字都按名称处理
func (t directiveToken) word() string {
	if t.tok == token.IDENT || t.tok.IsKeyword() {
		return t.lit
	}
	return ""
}

func (t directiveToken) String() string {
	switch {
	case t.tok == token.EOF:
		return "结尾"
	case t.lit != "":
		return strconv.Quote(t.lit)
	default:
		return strconv.Quote(t.tok.String())
	}
}

type directiveParser struct {
	fset *token.FileSet
	toks []directiveToken
	i    int
}

// newDirectiveParser 使用 go/scanner 对括号内的文本分词
// 分词位置换算回注解所在源文件的位置
func newDirectiveParser(fset *token.FileSet, ann *plugin.CommentAnnotation) (*directiveParser, error) {
	p := &directiveParser{fset: fset}

	open := strings.IndexByte(ann.Raw, '(')
	if open < 0 {
		return p, nil
	}
	if ann.Unclosed {
		return nil, newDiagnostic(fset.Position(ann.Pos+token.Pos(open)), ErrSyntax,
			"@%s 的括号没有闭合", VariantAnnotation)
	}
	inner := ann.Raw[open+1 : len(ann.Raw)-1]
	base := ann.Pos + token.Pos(open+1)

	file := token.NewFileSet().AddFile("", -1, len(inner))
	var (
		errOffset = -1
		errMsg    string
	)
	var s scanner.Scanner
	s.Init(file, []byte(inner), func(pos token.Position, msg string) {
		if errOffset < 0 {
			errOffset, errMsg = pos.Offset, msg
		}
	}, 0)

	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			p.toks = append(p.toks, directiveToken{tok: tok, pos: base + token.Pos(len(inner))})
			break
		}
		// 自动插入的分号
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		p.toks = append(p.toks, directiveToken{tok: tok, lit: lit, pos: base + token.Pos(file.Offset(pos))})
	}

	if errOffset >= 0 {
		return nil, newDiagnostic(fset.Position(base+token.Pos(errOffset)), ErrSyntax,
			"无法解析 @%s 指令: %s", VariantAnnotation, errMsg)
	}
	return p, nil
}

func (p *directiveParser) peek() directiveToken {
	return p.toks[p.i]
}

func (p *directiveParser) next() directiveToken {
	t := p.toks[p.i]
	if t.tok != token.EOF {
		p.i++
	}
	return t
}

func (p *directiveParser) done() bool {
	return len(p.toks) == 0 || p.peek().tok == token.EOF
}

func (p *directiveParser) errorf(pos token.Pos, kind ErrorKind, format string, args ...any) error {
	return newDiagnostic(p.fset.Position(pos), kind, format, args...)
}

// parse 解析逗号分隔的指令列表，允许末尾逗号
func (p *directiveParser) parse() ([]directiveEntry, error) {
	var entries []directiveEntry
	for !p.done() {
		e, err := p.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)

		if p.done() {
			break
		}
		if t := p.next(); t.tok != token.COMMA {
			return nil, p.errorf(t.pos, ErrSyntax, "指令之间需要 ',', 得到 %s", t)
		}
	}
	return entries, nil
}

func (p *directiveParser) entry() (directiveEntry, error) {
	t := p.next()
	word := t.word()
	if word == "" {
		return directiveEntry{}, p.errorf(t.pos, ErrSyntax, "需要指令名称, 得到 %s", t)
	}

	e := directiveEntry{pos: t.pos}
	if word == keywordPub || word == keywordImpl {
		e.keyword = word
		t = p.next()
		word = t.word()
		if word == "" {
			return e, p.errorf(t.pos, ErrSyntax, "%s 之后需要指令名称, 得到 %s", e.keyword, t)
		}
	}

	op, ok := ParseOpKind(word)
	if !ok {
		return e, p.errorf(t.pos, ErrUnknownDirective, "未知指令 %q, 可选: %s", word, opNameList())
	}
	e.op = op

	if p.peek().tok == token.ASSIGN {
		p.next()
		t = p.next()
		if t.tok != token.STRING {
			return e, p.errorf(t.pos, ErrSyntax, "'=' 之后需要字符串, 得到 %s", t)
		}
		rename, err := strconv.Unquote(t.lit)
		if err != nil {
			return e, p.errorf(t.pos, ErrSyntax, "无效的字符串 %s", t.lit)
		}
		e.rename, e.hasRename = rename, true

		if e.keyword != keywordImpl && !validRename(rename, e.keyword == keywordPub) {
			return e, p.errorf(t.pos, ErrInvalidRename, "%q 不能作为 Go 标识符", rename)
		}
	}

	if e.keyword == keywordImpl {
		if op != OpFrom {
			return e, p.errorf(e.pos, ErrKeywordMisuse, "impl 只能与 from 一起使用, 不能用于 %s", op)
		}
		if e.hasRename {
			return e, p.errorf(e.pos, ErrRenameOnForeign, "impl from 按载荷类型命名, 不能重命名")
		}
	}

	return e, nil
}
