package enumimpl

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    *Directives
	}{
		{
			name:    "bare annotation",
			comment: "// @Variant",
			want:    &Directives{},
		},
		{
			name:    "empty list",
			comment: "// @Variant()",
			want:    &Directives{},
		},
		{
			name:    "other annotations ignored",
			comment: "// @Other(is) @Deprecated",
			want:    &Directives{},
		},
		{
			name:    "single private",
			comment: "// @Variant(is)",
			want: &Directives{
				Is:    &ClassicConfig{},
				Order: []OpKind{OpIs},
			},
		},
		{
			name:    "mixed entries with trailing comma",
			comment: `// @Variant(pub is, as_ref = "peek", impl from,)`,
			want: &Directives{
				Is:    &ClassicConfig{Public: true},
				AsRef: &ClassicConfig{Rename: "peek"},
				From:  ForeignConstruction{},
				Order: []OpKind{OpIs, OpAsRef, OpFrom},
			},
		},
		{
			name:    "local construction with rename",
			comment: `// @Variant(pub from = "create_cuboid")`,
			want: &Directives{
				From:  LocalConstruction{ClassicConfig{Public: true, Rename: "create_cuboid"}},
				Order: []OpKind{OpFrom},
			},
		},
		{
			name:    "backquoted rename",
			comment: "// @Variant(into = `take`)",
			want: &Directives{
				Into:  &ClassicConfig{Rename: "take"},
				Order: []OpKind{OpInto},
			},
		},
		{
			name:    "several annotations",
			comment: "// @Variant(as_ref_mut) @Variant(pub into)",
			want: &Directives{
				AsRefMut: &ClassicConfig{},
				Into:     &ClassicConfig{Public: true},
				Order:    []OpKind{OpAsRefMut, OpInto},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset, anns := fieldAnnotations(t, tt.comment)
			got, err := ParseDirectives(fset, anns)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(Directives{})); diff != "" {
				t.Errorf("ParseDirectives() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDirectivesErrors(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		kind    ErrorKind
		at      string // 错误位置处的文本
		last    bool   // at 取最后一次出现
	}{
		{name: "duplicate", comment: "// @Variant(is, pub is)", kind: ErrDuplicateDirective, at: "pub is)"},
		{name: "duplicate across annotations", comment: "// @Variant(into) @Variant(into)", kind: ErrDuplicateDirective, at: "into)", last: true},
		{name: "impl with is", comment: "// @Variant(impl is)", kind: ErrKeywordMisuse, at: "impl is"},
		{name: "rename on foreign", comment: `// @Variant(impl from = "x")`, kind: ErrRenameOnForeign, at: "impl from"},
		{name: "unknown op", comment: "// @Variant(pub frob)", kind: ErrUnknownDirective, at: "frob"},
		{name: "keyword only", comment: "// @Variant(pub)", kind: ErrSyntax},
		{name: "number rename", comment: "// @Variant(is = 3)", kind: ErrSyntax, at: "3"},
		{name: "missing comma", comment: "// @Variant(is into)", kind: ErrSyntax, at: "into"},
		{name: "bad string", comment: `// @Variant(is = "abc)`, kind: ErrSyntax, at: "("},
		{name: "unclosed list", comment: "// @Variant(pub is, as_ref", kind: ErrSyntax, at: "("},
		{name: "space before paren", comment: "// @Variant (pub is)", kind: ErrSyntax, at: "@Variant"},
		{name: "digit rename", comment: `// @Variant(is = "1abc")`, kind: ErrInvalidRename, at: `"1abc"`},
		{name: "keyword rename", comment: `// @Variant(is = "type")`, kind: ErrInvalidRename},
		{name: "empty rename", comment: `// @Variant(pub as_ref = "")`, kind: ErrInvalidRename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset, anns := fieldAnnotations(t, tt.comment)
			_, err := ParseDirectives(fset, anns)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			diag, ok := AsDiagnostic(err)
			require.True(t, ok)
			assert.Equal(t, "x.go", diag.Pos.Filename)
			assert.Equal(t, 4, diag.Pos.Line)

			if tt.at != "" {
				line := "\tA int " + tt.comment
				idx := strings.Index(line, tt.at)
				if tt.last {
					idx = strings.LastIndex(line, tt.at)
				}
				require.GreaterOrEqual(t, idx, 0)
				assert.Equal(t, idx+1, diag.Pos.Column, "位置应指向 %q", tt.at)
			}
		})
	}
}

func TestParseDirectivesIgnoresNil(t *testing.T) {
	d, err := ParseDirectives(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, d.Len())
	assert.False(t, d.Has(OpIs))
}

func TestParseOpKind(t *testing.T) {
	for _, name := range []string{"is", "as_ref", "as_ref_mut", "into", "from"} {
		kind, ok := ParseOpKind(name)
		require.True(t, ok, name)
		assert.Equal(t, name, kind.String())
	}
	_, ok := ParseOpKind("as_mut")
	assert.False(t, ok)
	assert.Equal(t, "as_ref, as_ref_mut, from, into, is", opNameList())
}
