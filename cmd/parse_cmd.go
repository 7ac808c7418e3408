package cmd

import (
	"os"

	"github.com/dzjyyds666/cascade/parse"
	"github.com/spf13/cobra"
)

type ParseParams struct {
	Find   string `json:"find"`   // 查找的key
	Input  string `json:"input"`  // 输入文件路径
	Output string `json:"output"` // 输出文件地址
}

var params *ParseParams

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "cascade parse tools",
	RunE:  parseRun,
}

func init() {
	params = &ParseParams{}
	parseCmd.Flags().StringVarP(&params.Find, "find", "f", "", "key path to print, e.g. Weapon/Tags")
	parseCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path")
	parseCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	parseCmd.Flags().StringVar(&cfg.Format, "format", "", "output format: text, binary, yaml or json (default: by output extension)")
}

func parseRun(cmd *cobra.Command, args []string) error {
	doc, diags, err := openDocument(params.Input)
	if err != nil {
		return err
	}
	newPrinter(cmd.ErrOrStderr(), cfg.Color).diagnostics(params.Input, diags)

	k, err := subtree(doc, params.Find)
	if err != nil {
		return err
	}

	format := parse.FormatText
	if params.Output != "" {
		format = parse.FormatOf(params.Output)
	}
	if cfg.Format != "" {
		if format, err = parse.ParseFormat(cfg.Format); err != nil {
			return err
		}
	}
	data, err := parse.Encode(k, format)
	if err != nil {
		return err
	}
	if params.Output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(params.Output, data, 0o644)
}
