package cmd

import (
	"fmt"

	"github.com/dzjyyds666/cascade/parse"
	"github.com/spf13/cobra"
)

var convertParams struct {
	Input  string
	Output string
	Force  bool
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "convert a document between text, binary, yaml and json by file extension",
	RunE:  convertRun,
}

func init() {
	convertCmd.Flags().StringVarP(&convertParams.Input, "input", "i", "", "input file path")
	convertCmd.Flags().StringVarP(&convertParams.Output, "output", "o", "", "output path")
	convertCmd.Flags().BoolVar(&convertParams.Force, "force", false, "write even when the input has errors")
}

func convertRun(cmd *cobra.Command, args []string) error {
	if convertParams.Output == "" {
		return fmt.Errorf("no output file path")
	}
	doc, diags, err := openDocument(convertParams.Input)
	if err != nil {
		return err
	}
	newPrinter(cmd.ErrOrStderr(), cfg.Color).diagnostics(convertParams.Input, diags)
	if diags.Errors() > 0 && !convertParams.Force {
		return fmt.Errorf("%s has %d error(s), use --force to convert anyway", convertParams.Input, diags.Errors())
	}
	return parse.SaveFile(doc.Root, convertParams.Output)
}
