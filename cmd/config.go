package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// DefaultConfigFile 默认配置文件, 不存在时忽略
const DefaultConfigFile = ".cascade.yaml"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config 命令行配置, 命令行参数优先于配置文件
type Config struct {
	Root   string `yaml:"root"`   // #Insert file: 的查找目录
	Color  string `yaml:"color"`  // auto, always, never
	Format string `yaml:"format"` // parse 默认输出格式
	Strict bool   `yaml:"strict"` // check 时警告也算失败
}

// ReadConfig 读取 yaml 配置文件. required 为 false 时文件不存在返回空配置
func ReadConfig(path string, required bool) (*Config, error) {
	c := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return c, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("read config %s: bad color %q", path, c.Color)
	}
	return c, nil
}

// applyConfig 用配置文件补齐没有在命令行上指定的参数
func applyConfig(cmd *cobra.Command, path string) error {
	file, err := ReadConfig(path, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("root") && file.Root != "" {
		cfg.Root = file.Root
	}
	if !flags.Changed("color") && file.Color != "" {
		cfg.Color = file.Color
	}
	if !flags.Changed("format") && file.Format != "" {
		cfg.Format = file.Format
	}
	if !flags.Changed("strict") && file.Strict {
		cfg.Strict = true
	}
	return nil
}
