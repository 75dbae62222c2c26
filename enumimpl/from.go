package enumimpl

import (
	"github.com/donutnomad/gg"
)

// genFrom 以变体命名的构造函数，每个字段一个参数
//
//	func ShapeFromCircle(arg0 float64) Shape {
//		var v Shape
//		v.tag = shapeTagCircle
//		v.vCircle.arg0 = arg0
//		return v
//	}
func genFrom(v *variantUnit, c LocalConstruction) *Member {
	cfg := c.ClassicConfig
	name := memberName(v.union, v.variant.Name, OpFrom, &cfg)
	return v.member(OpFrom, name, v.constructor(name))
}

// genForeignFrom 以载荷类型命名的构造函数，可见性跟随联合类型
// float64 -> ShapeFromFloat64, (float64, float64) -> ShapeFromFloat64Float64
func genForeignFrom(v *variantUnit) *Member {
	name := foreignName(v.union, v.shape)
	m := v.member(OpFrom, name, v.constructor(name))
	m.Foreign = true
	return m
}

func (v *variantUnit) constructor(name string) any {
	u := v.union
	fn := gg.Function(name + u.TypeParams)

	if v.shape.IsEmpty() {
		fn.AddResult("", u.Type()).
			AddBody(gg.S("return %s{tag: %s}", u.Type(), v.tag))
		return fn
	}

	t := v.shape.Triple(v.local + "." + v.slot)
	body := []any{
		gg.S("var %s %s", v.local, u.Type()),
		gg.S("%s.tag = %s", v.local, v.tag),
	}
	for i, typ := range t.Types {
		fn.AddParameter(t.Pattern[i], typ)
		body = append(body, gg.S("%s = %s", t.Values[i], t.Pattern[i]))
	}
	body = append(body, gg.S("return %s", v.local))

	fn.AddResult("", u.Type()).AddBody(body...)
	return fn
}
