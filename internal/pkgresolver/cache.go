package pkgresolver

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// nameCache 导入路径 → 包名
// 同一路径的并发查询只读取一次磁盘
type nameCache struct {
	names sync.Map
	group singleflight.Group
}

func (c *nameCache) load(importPath string, read func() string) string {
	if name, ok := c.names.Load(importPath); ok {
		return name.(string)
	}
	v, _, _ := c.group.Do(importPath, func() (any, error) {
		name := read()
		c.names.Store(importPath, name)
		return name, nil
	})
	return v.(string)
}

func (c *nameCache) len() int {
	n := 0
	c.names.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
