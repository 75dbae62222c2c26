package imports

import (
	"io"
	"strings"
	"time"

	cc "github.com/donutnomad/enumgen/internal/pkgresolver/testdata/aliasedpkg"
	"github.com/donutnomad/enumgen/internal/pkgresolver/testdata/gg"
)

// @EnumImpl(name=Event)
type event struct {
	At     time.Time             // @Variant(pub into, impl from)
	Data   cc.SomeType           // @Variant(pub as_ref)
	Weight g2.Type               // @Variant(pub from)
	Stream struct{ R io.Reader } // @Variant(pub is)
	Done   struct{}              // @Variant(pub is, pub from = "finish")
}

// Title 不属于载荷的导入不会带入生成文件
func Title(s string) string {
	return strings.ToUpper(s)
}
