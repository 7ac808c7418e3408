package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dzjyyds666/cascade/parse"
	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/dzjyyds666/cascade/pkg"
)

// openDocument 读取输入文件, 诊断信息收集到返回的 Diagnostics 中
func openDocument(input string) (*cascade.Document, *cascade.Diagnostics, error) {
	if len(input) == 0 {
		return nil, nil, fmt.Errorf("no input file path")
	}
	exist, err := pkg.CheckFileExist(input)
	if err != nil {
		return nil, nil, fmt.Errorf("check file exist error: %w", err)
	}
	if !exist {
		return nil, nil, fmt.Errorf("input file %s not exist", input)
	}

	root := cfg.Root
	if root == "" {
		root = filepath.Dir(input)
	}
	diags := &cascade.Diagnostics{}
	m := cascade.NewManager(
		cascade.WithLoader(pkg.NewDirLoader(root)),
		cascade.WithLogger(cascade.Tee(diags, cascade.NewZapLogger(zlog))),
	)
	doc, err := parse.LoadFile(m, input)
	if err != nil {
		return nil, nil, err
	}
	return doc, diags, nil
}

// subtree 把查到的 key 包一层, 这样文本输出里会带上 key 自己的名字和值.
// 没有名字也没有值的数组元素直接输出它的子节点
func subtree(doc *cascade.Document, path string) (*cascade.Key, error) {
	if path == "" {
		return doc.Root, nil
	}
	k := doc.Root.FindPath(path)
	if k == nil {
		return nil, fmt.Errorf("key %q not found", path)
	}
	if !k.HasName() && k.ValueCount() == 0 {
		return k.Copy(), nil
	}
	wrap := cascade.NewKey("")
	k.Copy().SetParent(wrap)
	return wrap, nil
}
