package enumimpl

import (
	"fmt"

	"github.com/donutnomad/gg"
)

// genIs 判断接收者是否持有该变体，与载荷形态无关
func genIs(v *variantUnit, cfg *ClassicConfig) *Member {
	name := memberName(v.union, v.variant.Name, OpIs, cfg)
	fn := gg.Function(name).
		WithReceiver(v.recv, v.union.Type()).
		AddResult("", "bool").
		AddBody(gg.S("return %s.tag == %s", v.recv, v.tag))

	return v.member(OpIs, name, fn)
}

// tagCheck 接收者不是该变体时的条件
func (v *variantUnit) tagCheck(nilable bool) string {
	if nilable {
		return fmt.Sprintf("%s == nil || %s.tag != %s", v.recv, v.recv, v.tag)
	}
	return fmt.Sprintf("%s.tag != %s", v.recv, v.tag)
}
