package enumimpl

import (
	"go/token"
	"slices"
	"strings"
)

// OpKind 变体可以请求的操作
type OpKind int

const (
	OpIs       OpKind = iota + 1 // 判断是否为该变体
	OpAsRef                      // 只读访问载荷
	OpAsRefMut                   // 可写访问载荷
	OpInto                       // 取出载荷
	OpFrom                       // 由载荷构造
)

var opNames = map[OpKind]string{
	OpIs:       "is",
	OpAsRef:    "as_ref",
	OpAsRefMut: "as_ref_mut",
	OpInto:     "into",
	OpFrom:     "from",
}

func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseOpKind 按指令中的名称查找操作
func ParseOpKind(name string) (OpKind, bool) {
	for k, v := range opNames {
		if v == name {
			return k, true
		}
	}
	return 0, false
}

// opNameList 返回全部操作名，按字母排序
func opNameList() string {
	names := make([]string, 0, len(opNames))
	for _, v := range opNames {
		names = append(names, v)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// ClassicConfig is/as_ref/as_ref_mut/into 以及本地 from 的配置
type ClassicConfig struct {
	Public bool
	Rename string // 空表示使用默认名称
}

// Construction 构造操作的两种形式
type Construction interface {
	isConstruction()
}

// LocalConstruction 以变体名命名的构造函数
type LocalConstruction struct {
	ClassicConfig
}

// ForeignConstruction 以载荷类型命名的构造函数，不能重命名
type ForeignConstruction struct{}

func (LocalConstruction) isConstruction()   {}
func (ForeignConstruction) isConstruction() {}

// Directives 单个变体解析后的指令
// 每种操作最多出现一次，Order 记录声明顺序
type Directives struct {
	Is       *ClassicConfig
	AsRef    *ClassicConfig
	AsRefMut *ClassicConfig
	Into     *ClassicConfig
	From     Construction

	Order []OpKind

	positions map[OpKind]token.Pos
}

// Len 返回指令数量
func (d *Directives) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Order)
}

// Has 是否请求了该操作
func (d *Directives) Has(kind OpKind) bool {
	return d != nil && slices.Contains(d.Order, kind)
}

// Classic 返回 is/as_ref/as_ref_mut/into 的配置
func (d *Directives) Classic(kind OpKind) *ClassicConfig {
	switch kind {
	case OpIs:
		return d.Is
	case OpAsRef:
		return d.AsRef
	case OpAsRefMut:
		return d.AsRefMut
	case OpInto:
		return d.Into
	}
	return nil
}

// PosOf 返回指令在源码中的位置
func (d *Directives) PosOf(kind OpKind) token.Pos {
	if d == nil {
		return token.NoPos
	}
	return d.positions[kind]
}

// set 记录一条指令，重复时返回 false
func (d *Directives) set(kind OpKind, cfg *ClassicConfig, construction Construction, pos token.Pos) bool {
	if d.Has(kind) {
		return false
	}
	switch kind {
	case OpIs:
		d.Is = cfg
	case OpAsRef:
		d.AsRef = cfg
	case OpAsRefMut:
		d.AsRefMut = cfg
	case OpInto:
		d.Into = cfg
	case OpFrom:
		d.From = construction
	}
	d.Order = append(d.Order, kind)
	if d.positions == nil {
		d.positions = make(map[OpKind]token.Pos)
	}
	d.positions[kind] = pos
	return true
}
