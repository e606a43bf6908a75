package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "codesummary",
	Short: "Summarize source files with an LLM and export the results as Markdown, HTML, DOCX or PDF.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; real environment variables still apply.
		_ = godotenv.Load()
		return nil
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "config.yaml", "path to the YAML config file")
	flags.String("provider", "", `completion provider, "openai" or "gemini"`)
	flags.String("model", "", "model name")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.String("prompt-mode", "", `"combined" (one call per file) or "staged" (summary, example, confidence)`)
	flags.String("output", "", "output directory")
	flags.StringSlice("format", nil, "export formats: md, html, docx, pdf")
	flags.Int("concurrency", 0, "files summarized in parallel per job")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")

	for _, name := range []string{
		"config", "provider", "model", "base-url", "prompt-mode", "output",
		"format", "concurrency", "log-level", "log-format",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("codesummary")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(summarizeCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
