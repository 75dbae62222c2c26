package broken

// @EnumImpl(name=Good)
type good struct {
	One int    // @Variant(pub is, pub from)
	Two string // @Variant(pub as_ref)
}

// @EnumImpl(name=Bad)
type bad struct {
	One int // @Variant(pub is, pub is)
}

// @EnumImpl(name=Wrong)
type wrong interface {
	M()
}

// @EnumImpl(name=Fn)
func build() {}

// @EnumImpl(name=Val)
var fallback = 1
