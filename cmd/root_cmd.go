package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	cfg     = &Config{}
	zlog    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "cascade",
	Short:         "Cascade is a tool for tab-indented cascade documents.",
	Long:          "Cascade reads, checks, queries, diffs and converts cascade documents in their text (.cascade) and binary (.cbin) forms.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConfig(cmd, cfgFile); err != nil {
			return err
		}
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			zlog = l
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute 运行命令后 Sync 日志. --verbose 时 zlog 在 PersistentPreRunE 里才替换,
// 所以不能在命令运行前 defer
func execute() error {
	err := rootCmd.Execute()
	_ = zlog.Sync()
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Cascade",
	Long:  `All software has versions. This is Cascade's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cascade v0.1 -- HEAD")
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", DefaultConfigFile, "config file")
	pf.StringVar(&cfg.Root, "root", "", "directory searched by #Insert file: (default: directory of the input)")
	pf.StringVar(&cfg.Color, "color", ColorAuto, "colour output: auto, always or never")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log parser traces")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(convertCmd)
}
