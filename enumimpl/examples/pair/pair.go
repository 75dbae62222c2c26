package pair

//go:generate go run ../../.. gen .

// @EnumImpl(name=Pair)
type pairEnum struct {
	A struct{}           // @Variant(is)
	B struct{ _, _ int } // @Variant(as_ref, as_ref_mut, into, pub from = "make_b", is)
}
