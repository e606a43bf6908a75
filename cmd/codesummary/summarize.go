package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/codesummary/internal/language"
	"github.com/nguyentantai21042004/codesummary/internal/processor"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [directory | archive.zip]",
	Short: "Summarize a directory, a zip archive, or a pasted snippet",
	Example: `  codesummary summarize ./project
  codesummary summarize project.zip --format md,html,docx
  cat util.py | codesummary summarize --stdin --name util`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Long = summarizeLong()
	summarizeCmd.Flags().String("snippet", "", "code to summarize instead of a path")
	summarizeCmd.Flags().Bool("stdin", false, "read the snippet from standard input")
	summarizeCmd.Flags().String("name", "", "display name for the snippet")
}

func summarizeLong() string {
	exts := language.Extensions()
	for i, e := range exts {
		exts[i] = "." + e
	}
	return "Summarize every supported file under a directory or inside a zip archive, or a\n" +
		"single pasted snippet. Files with other extensions are listed as skipped.\n\n" +
		"Supported extensions: " + strings.Join(exts, " ")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	snippet, _ := cmd.Flags().GetString("snippet")
	fromStdin, _ := cmd.Flags().GetBool("stdin")
	name, _ := cmd.Flags().GetString("name")

	inputs := len(args)
	if snippet != "" {
		inputs++
	}
	if fromStdin {
		inputs++
	}
	if inputs != 1 {
		return errors.New("provide exactly one of: a path, --snippet, --stdin")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	if err := ensureDirectories(a.cfg.Paths.Output, a.cfg.Paths.Temp); err != nil {
		return err
	}

	var res *processor.Result
	switch {
	case len(args) == 1:
		res, err = a.processor.Process(ctx, args[0])
	case fromStdin:
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("read stdin: %w", readErr)
		}
		res, err = a.processor.ProcessSnippet(ctx, name, string(data))
	default:
		res, err = a.processor.ProcessSnippet(ctx, name, snippet)
	}
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), res)
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return nil
}

func printResult(w io.Writer, res *processor.Result) {
	for _, r := range res.Batch.Records {
		fmt.Fprintf(w, "%-9s %s (%s)\n", r.Status, r.Name, r.Language)
	}

	completed, skipped, errored := res.Batch.Counts()
	fmt.Fprintf(w, "\n%d summarized, %d skipped, %d failed\n", completed, skipped, errored)

	for _, f := range slices.Sorted(maps.Keys(res.Outputs)) {
		fmt.Fprintf(w, "%-5s -> %s\n", f, res.Outputs[f])
	}
	if len(res.Outputs) == 0 {
		fmt.Fprintln(w, "warning: no export was written")
	}
}
