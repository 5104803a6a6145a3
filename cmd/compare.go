package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/export"
	"github.com/openhouse-labs/propscore/internal/model"
	"github.com/openhouse-labs/propscore/internal/store"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score and rank a cohort of properties",
	Long: `Score 2-10 properties against each other and print the ranking.

The cohort comes from a JSON file (--file) or from catalog IDs (--ids).
Criteria default to every dimension; narrow them with the criteria
flags or a YAML criteria file.

Examples:
  # Compare a cohort file on every dimension
  compare --file cohort.json

  # Price and size only, as CSV
  compare --file cohort.json --price --size --format csv --output out.csv

  # Compare catalog properties with weighted criteria
  compare --ids prop-1,prop-2,prop-3 --criteria-file criteria.yaml

  # Save the comparison for later
  compare --file cohort.json --save --name "spring shortlist"`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringP("file", "f", "", "cohort JSON file")
	f.String("ids", "", "comma-separated catalog property IDs")
	f.String("criteria-file", "", "YAML criteria file (enabled dimensions + weights)")
	f.Bool("price", false, "enable price, value, and affordability dimensions")
	f.Bool("size", false, "enable the size dimension")
	f.Bool("location", false, "enable location, neighborhood, and accessibility dimensions")
	f.Bool("amenities", false, "enable the feature dimension")
	f.Bool("features", false, "enable the feature dimension")
	f.Bool("condition", false, "enable the condition dimension")
	f.Bool("year-built", false, "enable the condition dimension")
	f.Bool("property-type", false, "accepted for compatibility; enables no dimension")
	f.Bool("investment", false, "enable investment, cash flow, and appreciation dimensions")
	f.String("format", "table", "output format: table, csv, json, or xlsx")
	f.StringP("output", "o", "", "output file path (default: stdout)")
	f.Bool("save", false, "save the comparison to the store")
	f.String("name", "", "name for the saved comparison (required with --save)")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	outFormat, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	name, _ := cmd.Flags().GetString("name")
	if save && name == "" {
		return eris.New("compare: --save requires --name")
	}

	properties, err := loadCohort(ctx, cmd)
	if err != nil {
		return err
	}

	criteria, err := loadCriteria(cmd)
	if err != nil {
		return err
	}

	eng := engine.New(cfg.Engine)
	results, err := eng.Compare(properties, criteria)
	if err != nil {
		return err
	}

	report := &export.Report{
		Name:       name,
		Properties: properties,
		Criteria:   criteria,
		Results:    results,
	}
	outputPath, _ := cmd.Flags().GetString("output")
	if err := writeReport(report, outFormat, outputPath); err != nil {
		return err
	}

	if save {
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		saved, err := st.SaveComparison(ctx, name, properties, criteria, results)
		if err != nil {
			return err
		}
		zap.L().Info("comparison saved", zap.String("id", saved.ID), zap.String("name", saved.Name))
	}
	return nil
}

// loadCohort reads the cohort from --file, or resolves --ids against
// the catalog. Exactly one of the two must be given.
func loadCohort(ctx context.Context, cmd *cobra.Command) ([]model.PropertyAttributes, error) {
	file, _ := cmd.Flags().GetString("file")
	ids, _ := cmd.Flags().GetString("ids")

	switch {
	case file != "" && ids != "":
		return nil, eris.New("compare: --file and --ids are mutually exclusive")
	case file != "":
		return readCohortFile(file)
	case ids != "":
		st, err := openStore(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close() //nolint:errcheck
		return resolveCatalogIDs(ctx, st, splitAndTrim(ids))
	default:
		return nil, eris.New("compare: either --file or --ids is required")
	}
}

// readCohortFile parses a cohort JSON file. Both a bare array and a
// {"properties": [...]} wrapper are accepted.
func readCohortFile(path string) ([]model.PropertyAttributes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "compare: read cohort file %s", path)
	}

	var properties []model.PropertyAttributes
	if err := json.Unmarshal(data, &properties); err == nil {
		return properties, nil
	}

	var wrapper struct {
		Properties []model.PropertyAttributes `json:"properties"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "compare: parse cohort file %s", path)
	}
	return wrapper.Properties, nil
}

func resolveCatalogIDs(ctx context.Context, st store.Store, ids []string) ([]model.PropertyAttributes, error) {
	properties := make([]model.PropertyAttributes, 0, len(ids))
	for _, id := range ids {
		p, err := st.GetProperty(ctx, id)
		if err != nil {
			return nil, eris.Wrapf(err, "compare: resolve property %s", id)
		}
		properties = append(properties, *p)
	}
	return properties, nil
}

// loadCriteria builds criteria from a YAML file or the criteria flags.
// With neither, every dimension is enabled at equal weight.
func loadCriteria(cmd *cobra.Command) (model.ComparisonCriteria, error) {
	if path, _ := cmd.Flags().GetString("criteria-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.ComparisonCriteria{}, eris.Wrapf(err, "compare: read criteria file %s", path)
		}
		var criteria model.ComparisonCriteria
		if err := yaml.Unmarshal(data, &criteria); err != nil {
			return model.ComparisonCriteria{}, eris.Wrapf(err, "compare: parse criteria file %s", path)
		}
		return criteria, nil
	}

	flags := model.CriteriaFlags{}
	flags.Price, _ = cmd.Flags().GetBool("price")
	flags.Size, _ = cmd.Flags().GetBool("size")
	flags.Location, _ = cmd.Flags().GetBool("location")
	flags.Amenities, _ = cmd.Flags().GetBool("amenities")
	flags.Features, _ = cmd.Flags().GetBool("features")
	flags.Condition, _ = cmd.Flags().GetBool("condition")
	flags.YearBuilt, _ = cmd.Flags().GetBool("year-built")
	flags.PropertyType, _ = cmd.Flags().GetBool("property-type")
	flags.Investment, _ = cmd.Flags().GetBool("investment")

	if flags == (model.CriteriaFlags{}) {
		return model.ComparisonCriteria{}, nil
	}
	return model.CriteriaFromFlags(flags), nil
}

func writeReport(report *export.Report, format export.Format, outputPath string) error {
	if outputPath == "" {
		return export.Write(os.Stdout, format, report)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrapf(err, "compare: create output file %s", outputPath)
	}
	defer f.Close() //nolint:errcheck
	return export.Write(f, format, report)
}

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
