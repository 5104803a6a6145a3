package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openhouse-labs/propscore/internal/export"
	"github.com/openhouse-labs/propscore/internal/store"
)

var comparisonsCmd = &cobra.Command{
	Use:   "comparisons",
	Short: "Manage saved comparisons",
}

var comparisonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved comparisons",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")
		comparisons, err := st.ListComparisons(ctx, store.ComparisonFilter{Name: name, Limit: limit})
		if err != nil {
			return err
		}

		if len(comparisons) == 0 {
			fmt.Println("No saved comparisons.")
			return nil
		}
		fmt.Printf("%-38s %-30s %-10s %s\n", "ID", "Name", "Properties", "Created")
		for _, pc := range comparisons {
			fmt.Printf("%-38s %-30s %-10d %s\n",
				pc.ID, pc.Name, len(pc.Properties), pc.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var comparisonsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		format, _ := cmd.Flags().GetString("format")
		outFormat, err := export.ParseFormat(format)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		pc, err := st.GetComparison(ctx, args[0])
		if err != nil {
			return err
		}

		report := &export.Report{
			Name:       pc.Name,
			Properties: pc.Properties,
			Criteria:   pc.Criteria,
			Results:    pc.Results,
		}
		return export.Write(os.Stdout, outFormat, report)
	},
}

var comparisonsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteComparison(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted comparison %s\n", args[0])
		return nil
	},
}

func init() {
	comparisonsListCmd.Flags().String("name", "", "filter by name substring")
	comparisonsListCmd.Flags().Int("limit", 0, "max results (0 = store default)")
	comparisonsShowCmd.Flags().String("format", "table", "output format: table, csv, json, or xlsx")

	comparisonsCmd.AddCommand(comparisonsListCmd, comparisonsShowCmd, comparisonsDeleteCmd)
	rootCmd.AddCommand(comparisonsCmd)
}
