package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/donutnomad/enumgen/plugin"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCollectWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"a", "a/b", ".git", "vendor", "testdata", "_examples", "c"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}

	dirs, err := collectWatchDirs([]string{root + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "c"),
	}, dirs)

	dirs, err = collectWatchDirs([]string{filepath.Join(root, "a"), filepath.Join(root, "a")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a")}, dirs)

	_, err = collectWatchDirs([]string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestIsGeneratedFile(t *testing.T) {
	dir := t.TempDir()
	gen := filepath.Join(dir, "shape_enum.go")
	src := filepath.Join(dir, "shape.go")
	writeFile(t, gen, "// "+plugin.GeneratedHeader+"\n\npackage shape\n")
	writeFile(t, src, "package shape\n")

	assert.True(t, isGeneratedFile(gen))
	assert.False(t, isGeneratedFile(src))
	assert.True(t, isGeneratedFile(filepath.Join(dir, "shape_test.go")))
	assert.False(t, isGeneratedFile(filepath.Join(dir, "missing.go")))
}

func TestCheckSyntax(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.go")
	bad := filepath.Join(dir, "bad.go")
	writeFile(t, good, "package p\n\ntype shape struct{ A int }\n")
	writeFile(t, bad, "package p\n\ntype shape struct{ A int \n")

	assert.NoError(t, checkSyntax(good))
	assert.Error(t, checkSyntax(bad))
}

type generateRecorder struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (g *generateRecorder) generate(_ context.Context, dir string) {
	g.mu.Lock()
	g.calls = append(g.calls, dir)
	g.mu.Unlock()
	g.done <- struct{}{}
}

func TestScheduleGenerateDebounce(t *testing.T) {
	rec := &generateRecorder{done: make(chan struct{}, 4)}
	r := newDevRunner(zap.NewNop(), 20*time.Millisecond, []string{"EnumImpl"})
	r.generate = rec.generate
	defer r.stop()

	ctx := context.Background()
	for range 5 {
		r.scheduleGenerate(ctx, "/pkg/a")
	}
	r.scheduleGenerate(ctx, "/pkg/b")

	for range 2 {
		select {
		case <-rec.done:
		case <-time.After(2 * time.Second):
			t.Fatal("等待生成超时")
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.ElementsMatch(t, []string{"/pkg/a", "/pkg/b"}, rec.calls)
}

func TestScheduleGenerateCanceled(t *testing.T) {
	rec := &generateRecorder{done: make(chan struct{}, 1)}
	r := newDevRunner(zap.NewNop(), 5*time.Millisecond, nil)
	r.generate = rec.generate

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.scheduleGenerate(ctx, "/pkg/a")

	select {
	case <-rec.done:
		t.Fatal("上下文取消后不应生成")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleEventSchedulesAnnotatedFiles(t *testing.T) {
	dir := t.TempDir()
	annotated := filepath.Join(dir, "shape.go")
	plain := filepath.Join(dir, "plain.go")
	writeFile(t, annotated, "package p\n\n// @EnumImpl(name=Shape)\ntype shape struct{}\n")
	writeFile(t, plain, "package p\n\ntype plain struct{}\n")

	r := newDevRunner(zap.NewNop(), time.Hour, []string{"EnumImpl", "Variant"})
	r.generate = func(context.Context, string) {}
	defer r.stop()

	ctx := context.Background()
	r.handleEvent(ctx, fsnotify.Event{Name: plain, Op: fsnotify.Write})
	r.handleEvent(ctx, fsnotify.Event{Name: annotated, Op: fsnotify.Chmod})
	assert.Empty(t, r.pendingDirs)

	r.handleEvent(ctx, fsnotify.Event{Name: annotated, Op: fsnotify.Write})
	assert.Contains(t, r.pendingDirs, dir)
}
