package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath 未显式指定时读取的配置文件
const DefaultPath = ".enumgen.yaml"

// Config enumgen 命令行配置
// 命令行参数优先于配置文件
type Config struct {
	Output   string        `yaml:"output"`   // 默认输出路径，支持 $FILE, $PACKAGE, $TYPE
	Verbose  bool          `yaml:"verbose"`  // 详细日志
	Async    bool          `yaml:"async"`    // 并发执行生成器
	Debounce time.Duration `yaml:"debounce"` // dev 模式的防抖时间

	// Docs 覆盖生成代码的文档模板
	// key: layout, is, as_ref, as_ref_mut, into, from, foreign_from
	Docs map[string]string `yaml:"docs"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Async:    true,
		Debounce: 500 * time.Millisecond,
	}
}

// Load 读取配置文件
// explicit 为 false 时文件不存在返回默认配置
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置 %s 无效: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if c.Debounce < 0 {
		return fmt.Errorf("debounce 不能为负数: %s", c.Debounce)
	}
	for key, text := range c.Docs {
		if text == "" {
			return fmt.Errorf("文档模板 %s 为空", key)
		}
	}
	return nil
}
