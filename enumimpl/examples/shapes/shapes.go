package shapes

// @EnumImpl(name=Shape)
type shapeEnum struct {
	// 圆的半径
	// @Variant(pub is, pub as_ref, impl from)
	Circle float64

	Rectangle struct{ _, _ float64 }                 // @Variant(pub as_ref, pub as_ref_mut, impl from)
	Cuboid    struct{ Width, Height, Depth float64 } // @Variant(pub from = "create_cuboid", pub is, pub into)
	Unknown   struct{}                               // @Variant
}

// Area 使用生成的访问方法计算面积
func (s Shape) Area() float64 {
	if r, ok := s.AsCircle(); ok {
		return 3 * r * r
	}
	if w, h, ok := s.AsRectangle(); ok {
		return w * h
	}
	return 0
}
