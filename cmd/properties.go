package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Maintain the property catalog",
}

var propertiesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import properties from a JSON listing file",
	Long: `Imports (upserts) properties into the catalog from a JSON file
holding either an array of properties or a {"properties": [...]}
wrapper. Existing IDs are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		properties, err := readCohortFile(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportProperties(ctx, properties)
		if err != nil {
			return err
		}
		zap.L().Info("import complete", zap.Int("imported", n), zap.String("file", args[0]))
		fmt.Printf("Imported %d properties\n", n)
		return nil
	},
}

var propertiesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog property as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := st.GetProperty(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var propertiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog properties",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		properties, err := st.ListProperties(ctx, limit, offset)
		if err != nil {
			return err
		}

		if len(properties) == 0 {
			fmt.Println("No properties in catalog.")
			return nil
		}
		fmt.Printf("%-20s %-40s %12s %8s\n", "ID", "Address", "Price", "SqFt")
		for _, p := range properties {
			fmt.Printf("%-20s %-40s %12.0f %8.0f\n", p.ID, p.Address, p.Price, p.LivingArea)
		}
		return nil
	},
}

func init() {
	propertiesListCmd.Flags().Int("limit", 0, "max results (0 = store default)")
	propertiesListCmd.Flags().Int("offset", 0, "skip this many results")

	propertiesCmd.AddCommand(propertiesImportCmd, propertiesShowCmd, propertiesListCmd)
	rootCmd.AddCommand(propertiesCmd)
}
