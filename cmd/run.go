package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	runQuery string
	runCount int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for businesses and append new leads to the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(runQuery)
		if query == "" {
			query = promptLine(cmd.InOrStdin(), cmd.OutOrStdout(),
				"Enter search query (e.g. 'nail salon Auckland'): ")
		}
		if query == "" {
			return eris.New("no query given")
		}

		count := runCount
		if count <= 0 {
			raw := promptLine(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("How many websites to process (default %d): ", cfg.Pipeline.DefaultCount))
			count = parseCount(raw, cfg.Pipeline.DefaultCount)
		}

		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		sum, err := env.runner.Run(cmd.Context(), query, count)
		if err != nil {
			return err
		}

		if sum.Resolved == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"Done: %d resolved, %d saved, %d skipped, %d failed.\n",
			sum.Resolved, sum.Appended, sum.Skipped, sum.Failed)
		return nil
	},
}

func promptLine(in io.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// parseCount falls back to def on anything that is not a positive integer.
func parseCount(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func init() {
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "", "search query (prompted when omitted)")
	runCmd.Flags().IntVarP(&runCount, "count", "n", 0, "number of websites to process")
	rootCmd.AddCommand(runCmd)
}
