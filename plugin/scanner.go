package plugin

import (
	"bufio"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scanner 两阶段并行注解扫描器
// 第一阶段：快速文本匹配，找出可能包含注解的文件
// 第二阶段：对匹配的文件进行 AST 解析
type Scanner struct {
	workers int
	logger  *zap.Logger

	// 注解过滤器（可选）
	annotationFilter []string

	// 跳过的文件后缀，生成的文件不参与扫描
	skipSuffixes []string
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerLogger(logger *zap.Logger) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) {
		s.annotationFilter = annotations
	}
}

// WithSkipSuffixes 追加需要跳过的文件后缀
func WithSkipSuffixes(suffixes ...string) ScannerOption {
	return func(s *Scanner) {
		s.skipSuffixes = append(s.skipSuffixes, suffixes...)
	}
}

// DefaultSkipSuffixes 默认跳过的文件后缀
var DefaultSkipSuffixes = []string{"_test.go", "_enum.go", "_gen.go"}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		workers:      runtime.NumCPU(),
		logger:       zap.NewNop(),
		skipSuffixes: slices.Clone(DefaultSkipSuffixes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan 扫描指定路径
// 支持: ./... ./pkg/... ./pkg /abs/path/... file.go
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	allFiles, err := s.collectFiles(patterns)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("收集文件", zap.Int("count", len(allFiles)))

	// ========== 第一阶段：快速匹配 ==========
	matchedFiles := s.runWorkers(ctx, allFiles, func(file string) (*fileResult, bool) {
		matched, err := s.QuickMatchFile(file)
		if err != nil {
			s.logger.Debug("读取文件失败", zap.String("file", file), zap.Error(err))
			return nil, false
		}
		return &fileResult{path: file}, matched
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ========== 第二阶段：AST 解析 ==========
	parsed := s.runWorkers(ctx, lo.Map(matchedFiles, func(r *fileResult, _ int) string {
		return r.path
	}), func(file string) (*fileResult, bool) {
		r, err := s.parseFile(file, nil)
		if err != nil {
			s.logger.Warn("解析文件失败", zap.String("file", file), zap.Error(err))
			return nil, false
		}
		return r, true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.collect(parsed), nil
}

// ScanSource 解析单个源文件内容，filename 仅用于定位和输出路径
func (s *Scanner) ScanSource(filename string, src any) (*ScanResult, error) {
	r, err := s.parseFile(filename, src)
	if err != nil {
		return nil, err
	}
	return s.collect([]*fileResult{r}), nil
}

// fileResult 单个文件的扫描结果
type fileResult struct {
	path      string
	types     []*AnnotatedTarget
	pkgConfig *PackageConfig
}

// runWorkers 最多 s.workers 个文件并行处理
// 结果按输入顺序返回，保证多次运行输出一致
func (s *Scanner) runWorkers(ctx context.Context, files []string, fn func(string) (*fileResult, bool)) []*fileResult {
	results := make([]*fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if r, ok := fn(file); ok {
				results[i] = r
			}
			return nil
		})
	}
	_ = g.Wait()
	return lo.Compact(results)
}

// collect 合并各文件的结果
func (s *Scanner) collect(files []*fileResult) *ScanResult {
	result := &ScanResult{
		PackageConfigs: make(map[string]*PackageConfig),
	}
	for _, r := range files {
		result.Types = append(result.Types, r.types...)
		if r.pkgConfig == nil {
			continue
		}
		dir := r.pkgConfig.PackageDir
		existing, ok := result.PackageConfigs[dir]
		if !ok {
			result.PackageConfigs[dir] = r.pkgConfig
			continue
		}
		for _, name := range existing.merge(r.pkgConfig) {
			s.logger.Warn("包中存在不一致的 go:enumgen: 输出配置，使用后发现的配置",
				zap.String("package", dir), zap.String("plugin", name))
		}
	}
	return result
}

// QuickMatchFile 快速检查文件是否包含注解或 go:enumgen 配置
// 用于 dev 模式判断文件是否需要触发代码生成
func (s *Scanner) QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
			continue
		}

		// 支持 //go:enumgen: 和 // go:enumgen:
		if strings.Contains(trimmed, "go:enumgen:") {
			return true, nil
		}

		for _, m := range scanAnnotations(trimmed) {
			if len(s.annotationFilter) == 0 || slices.Contains(s.annotationFilter, m.ann.Name) {
				return true, nil
			}
		}
	}

	return false, scanner.Err()
}

// parseFile AST 解析单个文件，src 为 nil 时从磁盘读取
func (s *Scanner) parseFile(filePath string, src any) (*fileResult, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	result := &fileResult{
		path:      filePath,
		pkgConfig: s.parsePackageConfig(file, filePath),
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				result.types = append(result.types, s.parseTypeDecl(fset, file, filePath, d)...)
			case token.VAR, token.CONST:
				result.types = append(result.types, s.parseValueDecl(fset, file, filePath, d)...)
			}
		case *ast.FuncDecl:
			if at := s.parseFuncDecl(fset, file, filePath, d); at != nil {
				result.types = append(result.types, at)
			}
		}
	}

	return result, nil
}

// parseTypeDecl 解析类型声明
// 分组声明 type ( ... ) 中，每个类型使用自身的文档注释
func (s *Scanner) parseTypeDecl(fset *token.FileSet, file *ast.File, filePath string, decl *ast.GenDecl) []*AnnotatedTarget {
	var result []*AnnotatedTarget

	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		doc := typeSpec.Doc
		if doc == nil && len(decl.Specs) == 1 {
			doc = decl.Doc
		}
		annotations := s.docAnnotations(doc)
		if len(annotations) == 0 {
			continue
		}

		target := &Target{
			Kind:        targetKindOf(typeSpec),
			Name:        typeSpec.Name.Name,
			PackageName: file.Name.Name,
			FilePath:    filePath,
			Position:    typeSpec.Pos(),
			Fset:        fset,
			File:        file,
			Node:        typeSpec,
		}
		result = append(result, &AnnotatedTarget{
			Target:      target,
			Annotations: annotations,
		})
	}

	return result
}

// parseValueDecl 解析 var 与 const 声明，一个 ValueSpec 中的多个名称共用同一组注解
func (s *Scanner) parseValueDecl(fset *token.FileSet, file *ast.File, filePath string, decl *ast.GenDecl) []*AnnotatedTarget {
	kind := TargetVar
	if decl.Tok == token.CONST {
		kind = TargetConst
	}

	var result []*AnnotatedTarget
	for _, spec := range decl.Specs {
		valueSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		doc := valueSpec.Doc
		if doc == nil && len(decl.Specs) == 1 {
			doc = decl.Doc
		}
		annotations := s.docAnnotations(doc)
		if len(annotations) == 0 {
			continue
		}
		for _, name := range valueSpec.Names {
			result = append(result, &AnnotatedTarget{
				Target: &Target{
					Kind:        kind,
					Name:        name.Name,
					PackageName: file.Name.Name,
					FilePath:    filePath,
					Position:    name.Pos(),
					Fset:        fset,
					File:        file,
					Node:        valueSpec,
				},
				Annotations: annotations,
			})
		}
	}
	return result
}

// parseFuncDecl 解析函数和方法声明
func (s *Scanner) parseFuncDecl(fset *token.FileSet, file *ast.File, filePath string, decl *ast.FuncDecl) *AnnotatedTarget {
	annotations := s.docAnnotations(decl.Doc)
	if len(annotations) == 0 {
		return nil
	}

	kind := TargetFunc
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		kind = TargetMethod
	}
	return &AnnotatedTarget{
		Target: &Target{
			Kind:        kind,
			Name:        decl.Name.Name,
			PackageName: file.Name.Name,
			FilePath:    filePath,
			Position:    decl.Name.Pos(),
			Fset:        fset,
			File:        file,
			Node:        decl,
		},
		Annotations: annotations,
	}
}

// docAnnotations 解析文档注释中的注解，并按 annotationFilter 过滤
func (s *Scanner) docAnnotations(doc *ast.CommentGroup) []*Annotation {
	annotations := ParseAnnotationsFromDoc(doc)
	if len(s.annotationFilter) > 0 {
		annotations = lo.Filter(annotations, func(ann *Annotation, _ int) bool {
			return slices.Contains(s.annotationFilter, ann.Name)
		})
	}
	return annotations
}

func targetKindOf(spec *ast.TypeSpec) TargetKind {
	switch spec.Type.(type) {
	case *ast.StructType:
		return TargetStruct
	case *ast.InterfaceType:
		return TargetInterface
	default:
		return TargetType
	}
}

// collectFiles 按模式收集文件，去重并保持首次出现的顺序
func (s *Scanner) collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "/...")
		found, err := s.walkPattern(root, recursive)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, dup := seen[f]; !dup {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// walkPattern 列出 root 下的 Go 文件，recursive 为 false 时不进入子目录
func (s *Scanner) walkPattern(root string, recursive bool) ([]string, error) {
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if filepath.Ext(root) == ".go" {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			if path != root && (!recursive || SkipDir(d.Name())) {
				return filepath.SkipDir
			}
		case s.acceptFile(path):
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (s *Scanner) acceptFile(path string) bool {
	if !strings.HasSuffix(path, ".go") {
		return false
	}
	return !lo.SomeBy(s.skipSuffixes, func(suffix string) bool {
		return strings.HasSuffix(path, suffix)
	})
}

// parsePackageConfig 解析文件中的 go:enumgen: 配置，一个文件最多一条
func (s *Scanner) parsePackageConfig(file *ast.File, filePath string) *PackageConfig {
	lines := packageDirectives(file)
	switch len(lines) {
	case 0:
		return nil
	case 1:
		return parseConfigLine(lines[0], filePath)
	default:
		s.logger.Warn("文件定义了多个 go:enumgen: 指令，将被忽略", zap.String("file", filePath))
		return nil
	}
}
