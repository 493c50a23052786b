package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Irina-Kostina/business-search-tool/internal/model"
)

var leadsLimit int

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List recent leads from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		rows, err := env.ledger.Rows(cmd.Context(), leadsLimit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No leads recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WEBSITE\tNAME\tEMAILS\tPHONES")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				row[model.WebsiteColumn], row[2], row[6], row[7])
		}
		return w.Flush()
	},
}

func init() {
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 20, "maximum leads to list")
	rootCmd.AddCommand(leadsCmd)
}
