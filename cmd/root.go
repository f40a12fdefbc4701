// Package cmd wires the loctree CLI with cobra, the way philtographer's
// own cmd package wires its scan/impact subcommands -- flags merge with a
// config file and environment variables via viper.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var workspace string
var outputFile string

var rootCmd = &cobra.Command{
	Use:   "loctree",
	Short: "Polyglot source-code graph scanner and query tool",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(".")
			viper.SetConfigName("loctree.config")
		}
		viper.SetEnvPrefix("LOCTREE")
		viper.AutomaticEnv()
		if err := viper.ReadInConfig(); err == nil {
			fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
		}
		return nil
	},
}

// Execute runs the CLI; called from cmd/loctree/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./loctree.config.{json,yaml,toml})")
	rootCmd.PersistentFlags().StringVar(&workspace, "root", ".", "repo root to scan or query")
	rootCmd.PersistentFlags().StringVar(&outputFile, "out", "", "write JSON output to a file instead of stdout")

	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))
}

func writeResult(v any) error {
	out := viper.GetString("out")
	if out == "" {
		return encodeJSON(os.Stdout, v)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := encodeJSON(f, v); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}
