package testdata

import (
	"io"
	"time"

	cc "github.com/donutnomad/enumgen/internal/pkgresolver/testdata/aliasedpkg"
	"github.com/donutnomad/enumgen/internal/pkgresolver/testdata/gg"
	_ "embed"
)

// @EnumImpl(name=Value)
type value struct {
	At     time.Time      // @Variant(pub into)
	Data   cc.SomeType    // @Variant(pub as_ref)
	Weight g2.Type        // @Variant(pub from)
	Stream io.Reader      // @Variant(pub is)
}
