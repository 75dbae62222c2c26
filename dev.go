package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/enumgen/plugin"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"
)

// devRunner 监听文件变动并按包目录防抖触发生成
type devRunner struct {
	log      *zap.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	scanner  *plugin.Scanner

	// generate 对单个包目录执行生成
	generate func(ctx context.Context, pkgDir string)

	mu          sync.Mutex
	pendingDirs map[string]*time.Timer // key: 包目录
}

func runDev(cmd *cobra.Command, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	dirs, err := collectWatchDirs(patternsOf(args))
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}
	if len(dirs) == 0 {
		return fmt.Errorf("没有找到需要监听的目录")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("添加监听目录失败 %s: %w", dir, err)
		}
		logger.Debug("监听目录", zap.String("dir", dir))
	}

	runner := newDevRunner(logger, cfg.Debounce, registry.Annotations())
	runner.watcher = watcher
	runner.generate = runner.runGenerate
	defer runner.stop()

	fmt.Printf("开发模式已启动，监听 %d 个目录，按 Ctrl+C 退出\n", len(dirs))
	return runner.watchLoop(cmd.Context())
}

func newDevRunner(log *zap.Logger, debounce time.Duration, annotations []string) *devRunner {
	return &devRunner{
		log:         log,
		debounce:    debounce,
		scanner:     plugin.NewScanner(plugin.WithAnnotationFilter(annotations...), plugin.WithScannerLogger(log)),
		pendingDirs: make(map[string]*time.Timer),
	}
}

// stop 停止所有待执行的定时器
func (r *devRunner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dir, timer := range r.pendingDirs {
		timer.Stop()
		delete(r.pendingDirs, dir)
	}
}

func (r *devRunner) watchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n正在退出...")
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(ctx, event)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("监听错误", zap.Error(err))
		}
	}
}

func (r *devRunner) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	filePath := event.Name
	if !strings.HasSuffix(filePath, ".go") || isGeneratedFile(filePath) {
		return
	}
	log := r.log.With(zap.String("file", filePath))

	matched, err := r.scanner.QuickMatchFile(filePath)
	if err != nil {
		log.Debug("检查注解失败", zap.Error(err))
		return
	}
	if !matched {
		log.Debug("跳过文件（无注解）")
		return
	}

	if err := checkSyntax(filePath); err != nil {
		log.Warn("语法错误", zap.Error(err))
		return
	}

	r.scheduleGenerate(ctx, filepath.Dir(filePath))
}

// scheduleGenerate 防抖窗口内同一目录的多次变动只触发一次生成
func (r *devRunner) scheduleGenerate(ctx context.Context, pkgDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.pendingDirs[pkgDir]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		if r.pendingDirs[pkgDir] != timer {
			r.mu.Unlock()
			return
		}
		delete(r.pendingDirs, pkgDir)
		r.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		r.generate(ctx, pkgDir)
	})
	r.pendingDirs[pkgDir] = timer
}

func (r *devRunner) runGenerate(ctx context.Context, pkgDir string) {
	log := r.log.With(zap.String("dir", pkgDir))
	log.Debug("触发代码生成")

	stats, err := plugin.RunWithOptionsAndStats(ctx, runOptions([]string{pkgDir}))
	if stats != nil {
		for _, e := range stats.Errors {
			log.Error("生成错误", zap.Error(e))
		}
	}
	if err != nil {
		log.Error("生成失败", zap.Error(err))
		return
	}
	if stats != nil {
		log.Info("生成完成",
			zap.Int("files", stats.FileCount),
			zap.Duration("elapsed", stats.TotalDuration))
	}
}

// checkSyntax 只检查语法，不修改 imports
func checkSyntax(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	_, err = imports.Process(filePath, content, &imports.Options{
		Fragment:   true,
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true,
	})
	return err
}

// collectWatchDirs 展开路径模式，/... 递归收集子目录
func collectWatchDirs(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		baseDir := strings.TrimSuffix(pattern, "/...")
		if baseDir == "" {
			baseDir = "."
		}

		absDir, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absDir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		if !recursive {
			add(absDir)
			continue
		}

		err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != absDir && plugin.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

// isGeneratedFile 测试文件和带生成头的文件不触发生成
func isGeneratedFile(filePath string) bool {
	if strings.HasSuffix(filePath, "_test.go") {
		return true
	}
	f, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 256)
	n, _ := io.ReadFull(f, head)
	return bytes.Contains(head[:n], []byte(plugin.GeneratedHeader))
}
