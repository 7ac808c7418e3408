package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "report the errors and warnings of cascade documents",
	RunE:  checkRun,
}

var checkInput string

func init() {
	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "input file path")
	checkCmd.Flags().BoolVar(&cfg.Strict, "strict", false, "fail on warnings too")
}

func checkRun(cmd *cobra.Command, args []string) error {
	files := args
	if checkInput != "" {
		files = append([]string{checkInput}, files...)
	}
	if len(files) == 0 {
		return errors.New("no input file path")
	}

	p := newPrinter(cmd.OutOrStdout(), cfg.Color)
	failed := false
	for _, f := range files {
		_, diags, err := openDocument(f)
		if err != nil {
			return err
		}
		p.diagnostics(f, diags)
		if diags.Errors() > 0 || cfg.Strict && diags.Warnings() > 0 {
			failed = true
		}
		if len(files) > 1 {
			fmt.Fprint(p.w, p.path("%s: ", f))
		}
		p.summary(diags)
	}
	if failed {
		return errCheckFailed
	}
	return nil
}
