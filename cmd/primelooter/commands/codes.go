package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"primelooter/services/looter"
	"primelooter/services/looter/codestore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var codesFile *string
var historyDb *string
var historyLimit *int

func init() {
	codesFile = codesCmd.PersistentFlags().String("file", "game_codes.txt", "The codes file to read.")
	historyDb = codesHistoryCmd.Flags().String("db", "primelooter.db", "The history database to read.")
	historyLimit = codesHistoryCmd.Flags().Int("limit", 50, "Maximum number of events to show.")

	codesCmd.AddCommand(codesShowCmd)
	codesCmd.AddCommand(codesHistoryCmd)
	rootCmd.AddCommand(codesCmd)
}

func sortedRecords() ([]codestore.Record, error) {
	records, err := codestore.New(*codesFile).Records()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Title() < records[j].Title()
	})
	return records, nil
}

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Lists saved claim codes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := sortedRecords()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Title", "Code"})
		for i, rec := range records {
			t.AppendRow(table.Row{i + 1, rec.Title(), rec.ClaimCode})
		}
		t.Render()
		return nil
	},
}

var codesShowCmd = &cobra.Command{
	Use:   "show <#>",
	Short: "Shows the redemption instructions of one saved code.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("not a record number: %q", args[0])
		}

		records, err := sortedRecords()
		if err != nil {
			return err
		}
		if index < 1 || index > len(records) {
			return fmt.Errorf("record %d does not exist, have %d", index, len(records))
		}

		rec := records[index-1]
		fmt.Printf("%s\nCode: %s\n\n%s\n", rec.Title(), rec.ClaimCode, rec.Instructions)
		return nil
	},
}

var codesHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists recent claim outcomes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := looter.OpenHistory(*historyDb)
		if err != nil {
			return err
		}
		defer history.Close()

		events, err := history.Recent(cmd.Context(), *historyLimit)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"When", "Outcome", "Game", "Item", "Code"})
		for _, e := range events {
			t.AppendRow(table.Row{
				e.OccurredAt.Format("2006-01-02 15:04"),
				string(e.Outcome),
				e.GameTitle,
				e.ItemTitle,
				e.ClaimCode,
			})
		}
		t.Render()
		return nil
	},
}
