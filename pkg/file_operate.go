package pkg

import (
	"os"
	"path/filepath"
	"strings"
)

// TextExt 文本文档的扩展名
const TextExt = ".cascade"

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadText 读取文本文件, 去掉 UTF-8 BOM
func ReadText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// NewDirLoader 返回以 dir 为根目录的文档加载函数, 依次尝试 name 与 name+".cascade".
// 找不到文件或者路径跳出 dir 时返回空字符串
func NewDirLoader(dir string) func(name string) string {
	return func(name string) string {
		rel := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
		if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return ""
		}
		for _, p := range []string{rel, rel + TextExt} {
			full := filepath.Join(dir, p)
			info, err := os.Stat(full)
			if err != nil || info.IsDir() {
				continue
			}
			text, err := ReadText(full)
			if err == nil {
				return text
			}
		}
		return ""
	}
}
