package cmd

import (
	"errors"
	"fmt"

	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/spf13/cobra"
)

var errDifferent = errors.New("documents differ")

var diffParams struct {
	Comments   bool
	Structural bool
}

var diffCmd = &cobra.Command{
	Use:   "diff A B",
	Short: "compare two cascade documents",
	Long:  "Compare the canonical text of two documents line by line. With --structural only report whether the trees are equal.",
	Args:  cobra.ExactArgs(2),
	RunE:  diffRun,
}

func init() {
	diffCmd.Flags().BoolVar(&diffParams.Comments, "comments", false, "compare comments too")
	diffCmd.Flags().BoolVar(&diffParams.Structural, "structural", false, "only report whether the trees are equal")
}

func diffRun(cmd *cobra.Command, args []string) error {
	a, _, err := openDocument(args[0])
	if err != nil {
		return err
	}
	b, _, err := openDocument(args[1])
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout(), cfg.Color)

	if diffParams.Structural {
		equal := a.Root.Equal(b.Root)
		if diffParams.Comments {
			equal = a.Root.EqualWithComments(b.Root)
		}
		if !equal {
			return errDifferent
		}
		fmt.Fprintln(p.w, "equal")
		return nil
	}

	var opts []cascade.SaveOption
	if !diffParams.Comments {
		opts = append(opts, cascade.WithoutComments())
	}
	if p.diff(lineDiff(a.Root.SaveToString(opts...), b.Root.SaveToString(opts...))) {
		return errDifferent
	}
	return nil
}
