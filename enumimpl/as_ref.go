package enumimpl

import (
	"strings"

	"github.com/donutnomad/gg"
	"github.com/samber/lo"
)

// genAsRef 值接收者，返回载荷的副本
//
//	func (s Shape) AsRectangle() (arg0 float64, arg1 float64, ok bool) {
//		if s.tag != shapeTagRectangle {
//			return
//		}
//		return s.vRectangle.arg0, s.vRectangle.arg1, true
//	}
func genAsRef(v *variantUnit, cfg *ClassicConfig) *Member {
	name := memberName(v.union, v.variant.Name, OpAsRef, cfg)
	return v.member(OpAsRef, name, v.extractor(name))
}

// genAsRefMut 指针接收者，返回指向载荷槽的指针，nil 接收者视为不匹配
func genAsRefMut(v *variantUnit, cfg *ClassicConfig) *Member {
	name := memberName(v.union, v.variant.Name, OpAsRefMut, cfg)
	fn := gg.Function(name).WithReceiver(v.recv, "*"+v.union.Type())

	if v.shape.IsEmpty() {
		fn.AddResult("ok", "bool").
			AddBody(gg.S("return %s != nil && %s.tag == %s", v.recv, v.recv, v.tag))
		return v.member(OpAsRefMut, name, fn)
	}

	t := v.shape.Triple(v.recv + "." + v.slot)
	for i, typ := range t.Types {
		fn.AddResult(t.Pattern[i], "*"+typ)
	}
	refs := lo.Map(t.Values, func(val string, _ int) string { return "&" + val })
	fn.AddResult("ok", "bool").
		AddBody(
			gg.If(v.tagCheck(true)).AddBody(gg.String("return")),
			gg.S("return %s, true", strings.Join(refs, ", ")),
		)
	return v.member(OpAsRefMut, name, fn)
}

// extractor as_ref 和 into 共用的值接收者方法，空载荷只返回 ok
func (v *variantUnit) extractor(name string) any {
	fn := gg.Function(name).WithReceiver(v.recv, v.union.Type())

	if v.shape.IsEmpty() {
		fn.AddResult("ok", "bool").
			AddBody(gg.S("return %s.tag == %s", v.recv, v.tag))
		return fn
	}

	t := v.shape.Triple(v.recv + "." + v.slot)
	for i, typ := range t.Types {
		fn.AddResult(t.Pattern[i], typ)
	}
	fn.AddResult("ok", "bool").
		AddBody(
			gg.If(v.tagCheck(false)).AddBody(gg.String("return")),
			gg.S("return %s, true", strings.Join(t.Values, ", ")),
		)
	return fn
}
