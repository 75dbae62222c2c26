package enumimpl

import (
	"strings"

	"github.com/donutnomad/enumgen/internal/utils"
	"github.com/donutnomad/gg"
)

// Layout 联合类型本身的定义
//
//	type shapeTag uint8
//
//	const (
//		shapeTagCircle shapeTag = 1
//		...
//	)
//
//	type Shape struct {
//		tag     shapeTag
//		vCircle struct{ arg0 float64 }
//		...
//	}
type Layout struct {
	Doc      string
	TagType  string
	TagWidth string
	Tags     []LayoutTag
	Slots    []LayoutSlot
}

// LayoutTag 一个变体的判别值，从 1 开始，零值表示不持有任何变体
type LayoutTag struct {
	Name    string
	Variant string
	Value   int
}

// LayoutSlot 非空变体的载荷槽，每个变体独占一个，互不别名
type LayoutSlot struct {
	Name    string
	Variant string
	Type    string
}

func tagTypeName(u *UnionSchema) string {
	return utils.LowerFirst(u.Name) + "Tag"
}

func tagConstName(tagType, variant string) string {
	return tagType + utils.UpperFirst(variant)
}

func slotName(variant string) string {
	return "v" + utils.UpperFirst(variant)
}

// newLayout 按变体顺序分配判别值和载荷槽
func newLayout(u *UnionSchema, shapes []*PayloadShape) *Layout {
	l := &Layout{
		TagType:  tagTypeName(u),
		TagWidth: "uint8",
	}
	if len(u.Variants) > 255 {
		l.TagWidth = "uint16"
	}
	for i, v := range u.Variants {
		l.Tags = append(l.Tags, LayoutTag{
			Name:    tagConstName(l.TagType, v.Name),
			Variant: v.Name,
			Value:   i + 1,
		})
		if shapes[i].IsEmpty() {
			continue
		}
		l.Slots = append(l.Slots, LayoutSlot{
			Name:    slotName(v.Name),
			Variant: v.Name,
			Type:    shapes[i].SlotType(),
		})
	}
	return l
}

// render 写入判别类型、常量和联合类型
func (l *Layout) render(group *gg.Group, u *UnionSchema) {
	group.AddLine()
	group.Append(gg.Type(l.TagType, l.TagWidth))

	if len(l.Tags) > 0 {
		group.AddLine()
		consts := gg.Const()
		for _, t := range l.Tags {
			consts.AddTypedField(t.Name, l.TagType, gg.Lit(t.Value))
		}
		group.Append(consts)
	}

	group.AddLine()
	appendDoc(group, l.Doc)
	st := group.NewStruct(u.Name + u.TypeParams)
	st.AddField("tag", l.TagType)
	for _, s := range l.Slots {
		st.AddField(s.Name, s.Type)
	}
}

// appendDoc 逐行写入文档注释，长行保持原样不折行
func appendDoc(group *gg.Group, doc string) {
	if doc == "" {
		return
	}
	for _, line := range splitLines(doc) {
		if line = strings.TrimRight(line, " \t"); line == "" {
			group.Append(gg.S("//"))
		} else {
			group.Append(gg.S("// %s", line))
		}
	}
}
