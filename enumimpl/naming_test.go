package enumimpl

import (
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenamedIdent(t *testing.T) {
	tests := []struct {
		rename string
		public bool
		want   string
	}{
		{"create_cuboid", true, "CreateCuboid"},
		{"create_cuboid", false, "createCuboid"},
		{"make_b", true, "MakeB"},
		{"make-b", false, "makeB"},
		{"HTTPGet", false, "httpGet"},
		{"peek", true, "Peek"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, renamedIdent(tt.rename, tt.public), tt.rename)
	}
}

func TestValidRename(t *testing.T) {
	assert.True(t, validRename("make_b", false))
	assert.True(t, validRename("make-b", true))
	assert.False(t, validRename("", true))
	assert.False(t, validRename("_", true))
	assert.False(t, validRename("1abc", true))
	assert.False(t, validRename("a b", true))
	assert.False(t, validRename("func", false))
	assert.False(t, validRename("Type", false), "转换后为关键字 type")
	assert.True(t, validRename("Type", true))
}

func TestMemberName(t *testing.T) {
	u := &UnionSchema{Name: "Shape"}
	assert.Equal(t, "IsCircle", memberName(u, "Circle", OpIs, &ClassicConfig{Public: true}))
	assert.Equal(t, "isCircle", memberName(u, "Circle", OpIs, &ClassicConfig{}))
	assert.Equal(t, "asCircle", memberName(u, "circle", OpAsRef, nil))
	assert.Equal(t, "AsCircleMut", memberName(u, "Circle", OpAsRefMut, &ClassicConfig{Public: true}))
	assert.Equal(t, "intoCircle", memberName(u, "Circle", OpInto, &ClassicConfig{}))
	assert.Equal(t, "ShapeFromCircle", memberName(u, "Circle", OpFrom, &ClassicConfig{Public: true}))
	assert.Equal(t, "shapeFromCircle", memberName(u, "Circle", OpFrom, &ClassicConfig{}))
	assert.Equal(t, "Radius", memberName(u, "Circle", OpAsRef, &ClassicConfig{Public: true, Rename: "radius"}))
}

func TestTypeKey(t *testing.T) {
	tests := map[string]string{
		"int":                "Int",
		"pkg.Thing":          "PkgThing",
		"*Node":              "NodePtr",
		"[]byte":             "ByteSlice",
		"[16]byte":           "ByteArray16",
		"map[string]int":     "MapStringInt",
		"chan int":           "IntChan",
		"func()":             "Func",
		"any":                "Any",
		"interface{}":        "Any",
		"interface{ M() }":   "Interface",
		"struct{ X int }":    "Struct",
		"Pair[int, string]":  "PairIntString",
		"(int)":              "Int",
		"[]*time.Duration":   "TimeDurationPtrSlice",
		"map[Key][]*Value":   "MapKeyValuePtrSlice",
		"List[map[int]bool]": "ListMapIntBool",
	}
	for src, want := range tests {
		expr, err := parser.ParseExpr(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, typeKey(expr), src)
	}
}

func TestForeignName(t *testing.T) {
	shape, err := analyze(t, "struct{ _ float64; _ []byte }")
	require.NoError(t, err)
	assert.Equal(t, "ShapeFromFloat64ByteSlice", foreignName(&UnionSchema{Name: "Shape"}, shape))
	assert.Equal(t, "valueFromFloat64ByteSlice", foreignName(&UnionSchema{Name: "value"}, shape))
}

func TestPickName(t *testing.T) {
	taken := map[string]bool{"s": true, "u": true}
	assert.Equal(t, "x", pickName(taken, "s", "u", "x"))
	assert.Equal(t, "v", pickName(nil, "v"))
	assert.Equal(t, "recv1", pickName(map[string]bool{"recv": true}, "recv"))
	assert.Equal(t, "val", pickName(nil, "type", "val"), "跳过关键字")
}
