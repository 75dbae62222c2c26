package aliasedpkg

type SomeType struct {
	Value string
}
