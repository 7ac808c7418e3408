package cmd

import (
	"fmt"
	"strings"

	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"
)

// QueryEnv 是查询表达式里可以使用的字段
type QueryEnv struct {
	Name     string
	Path     string
	Depth    int
	IsArray  bool
	Values   []any
	Keys     int
	Comments string
}

func newQueryEnv(k *cascade.Key, depth int) QueryEnv {
	vs := make([]any, 0, k.ValueCount())
	for _, v := range k.Variants() {
		vs = append(vs, v.Interface())
	}
	return QueryEnv{
		Name:     k.EffectiveName(),
		Path:     k.Path(),
		Depth:    depth,
		IsArray:  k.IsArray(),
		Values:   vs,
		Keys:     k.KeyCount(),
		Comments: k.Comments(),
	}
}

// Query 返回 root 下所有满足表达式的 key, 按先序遍历的顺序, 不包括 root 自己
func Query(root *cascade.Key, src string) ([]*cascade.Key, error) {
	prog, err := expr.Compile(src, expr.Env(QueryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	var (
		out    []*cascade.Key
		runErr error
	)
	root.Walk(func(k *cascade.Key, depth int) bool {
		if runErr != nil {
			return false
		}
		if depth == 0 {
			return true
		}
		res, err := expr.Run(prog, newQueryEnv(k, depth))
		if err != nil {
			runErr = fmt.Errorf("query at %s: %w", k.Path(), err)
			return false
		}
		if ok, _ := res.(bool); ok {
			out = append(out, k)
		}
		return true
	})
	if runErr != nil {
		return nil, runErr
	}
	return out, nil
}

var queryParams struct {
	Input string
	Expr  string
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "print the keys matching an expression",
	Long: `Print the path and values of every key for which the expression is true.
The expression sees Name, Path, Depth, IsArray, Values, Keys and Comments, e.g.

  cascade query -i items.cascade -e 'Depth == 1 && len(Values) > 1'`,
	RunE: queryRun,
}

func init() {
	queryCmd.Flags().StringVarP(&queryParams.Input, "input", "i", "", "input file path")
	queryCmd.Flags().StringVarP(&queryParams.Expr, "expr", "e", "true", "filter expression")
}

func queryRun(cmd *cobra.Command, args []string) error {
	doc, diags, err := openDocument(queryParams.Input)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout(), cfg.Color)
	newPrinter(cmd.ErrOrStderr(), cfg.Color).diagnostics(queryParams.Input, diags)

	keys, err := Query(doc.Root, queryParams.Expr)
	if err != nil {
		return err
	}
	for _, k := range keys {
		vs := make([]string, 0, k.ValueCount())
		for _, v := range k.Values() {
			vs = append(vs, v.String())
		}
		fmt.Fprintf(p.w, "%s: %s\n", p.path("%s", k.Path()), strings.Join(vs, ", "))
	}
	return nil
}
