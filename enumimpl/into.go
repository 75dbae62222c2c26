package enumimpl

// genInto 取出载荷
// 值接收者即调用方持有的副本，方法返回后该副本不再使用
func genInto(v *variantUnit, cfg *ClassicConfig) *Member {
	name := memberName(v.union, v.variant.Name, OpInto, cfg)
	return v.member(OpInto, name, v.extractor(name))
}
