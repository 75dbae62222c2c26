package result

// @EnumImpl(name=Result)
type result[T any, E error] struct {
	Ok  T // @Variant(pub is, pub into, pub from)
	Err E // @Variant(pub is, pub into, pub from)
}

// Unwrap 返回成功值，失败时 panic
func (r Result[T, E]) Unwrap() T {
	if v, ok := r.IntoOk(); ok {
		return v
	}
	err, _ := r.IntoErr()
	panic(err)
}
