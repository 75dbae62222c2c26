package plugin

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Registry 注解注册表
// 一个注解只能绑定一个生成器
type Registry struct {
	mu sync.RWMutex

	// gens 按优先级和名称排序
	gens []Generator

	// byAnnotation 注解名 -> 生成器
	byAnnotation map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{byAnnotation: make(map[string]Generator)}
}

// Register 注册生成器，生成器名或注解冲突时返回错误
func (r *Registry) Register(gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := gen.Name()
	if slices.ContainsFunc(r.gens, func(g Generator) bool { return g.Name() == name }) {
		return fmt.Errorf("生成器 %q 已注册", name)
	}
	for _, ann := range gen.Annotations() {
		if owner, ok := r.byAnnotation[ann]; ok {
			return fmt.Errorf("注解 @%s 已被生成器 %q 绑定，无法被 %q 再次绑定", ann, owner.Name(), name)
		}
	}

	for _, ann := range gen.Annotations() {
		r.byAnnotation[ann] = gen
	}
	i, _ := slices.BinarySearchFunc(r.gens, gen, compareGenerators)
	r.gens = slices.Insert(r.gens, i, gen)
	return nil
}

// MustRegister 注册失败时 panic
func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

func compareGenerators(a, b Generator) int {
	if d := a.Priority() - b.Priority(); d != 0 {
		return d
	}
	return strings.Compare(a.Name(), b.Name())
}

// Lookup 返回绑定该注解的生成器
func (r *Registry) Lookup(annotation string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.byAnnotation[annotation]
	return gen, ok
}

// GetByName 根据生成器名获取生成器
func (r *Registry) GetByName(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Find(r.gens, func(g Generator) bool { return g.Name() == name })
}

// Generators 按优先级和名称排序
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.gens)
}

// Annotations 全部已注册注解，按名称排序
func (r *Registry) Annotations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := lo.Keys(r.byAnnotation)
	slices.Sort(result)
	return result
}

// DispatchTargets 将扫描结果分发给对应的生成器
// 返回 map[生成器名] -> 目标，同一目标对同一生成器只分发一次
func (r *Registry) DispatchTargets(result *ScanResult) map[string][]*AnnotatedTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dispatch := make(map[string][]*AnnotatedTarget)
	for _, target := range result.All() {
		gens := lo.FilterMap(target.Annotations, func(ann *Annotation, _ int) (Generator, bool) {
			gen, ok := r.byAnnotation[ann.Name]
			return gen, ok && slices.Contains(gen.SupportedTargets(), target.Target.Kind)
		})
		for _, gen := range lo.UniqBy(gens, Generator.Name) {
			dispatch[gen.Name()] = append(dispatch[gen.Name()], target)
		}
	}
	return dispatch
}
