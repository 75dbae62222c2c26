package utils

import (
	"fmt"
	"os"

	"golang.org/x/tools/imports"
)

// FormatSource 使用 goimports 规则格式化源码
func FormatSource(path string, src []byte) ([]byte, error) {
	formatted, err := imports.Process(path, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("格式化 %s 失败: %w", path, err)
	}
	return formatted, nil
}

// WriteFormat 格式化后写入文件
// 格式化失败时仍写入原始内容，便于排查生成结果
func WriteFormat(path string, src []byte) error {
	formatted, err := FormatSource(path, src)
	if err != nil {
		if werr := os.WriteFile(path, src, 0644); werr != nil {
			return werr
		}
		return err
	}
	return os.WriteFile(path, formatted, 0644)
}
