package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"churnboard/adapters/excel"
	"churnboard/internal/analysis"
	"churnboard/internal/config"
	"churnboard/internal/dataset"

	"github.com/spf13/cobra"
)

type cli struct {
	source string
	limit  int
	bins   int
	cache  *dataset.Cache
}

func main() {
	c := &cli{cache: dataset.NewCache(nil)}
	defer c.cache.Close()

	if err := newRootCmd(c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	defaults := config.Default()
	if loaded, err := config.Load(); err == nil {
		defaults = loaded
	}

	rootCmd := &cobra.Command{
		Use:   "churnboard-cli",
		Short: "Customer churn and CLV dashboard figures on the command line",
		Long: `Print the churn dashboard's KPIs, group distribution, segment tables,
CLV histogram and model comparison for a customer dataset.

The dataset is a CSV or XLSX file, or a postgres:// URL with an optional
table query parameter.

Example: churnboard-cli --source Customer_Churn_CLV_Segmentation.csv overview`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.source, "source", defaults.Data.Source, "Dataset file or postgres:// URL")
	rootCmd.PersistentFlags().IntVar(&c.limit, "limit", defaults.Data.DisplayLimit, "Maximum rows shown for a segment")
	rootCmd.PersistentFlags().IntVar(&c.bins, "bins", defaults.Data.HistogramBins, "Number of CLV histogram bins")

	rootCmd.AddCommand(
		newOverviewCmd(c),
		newGroupsCmd(c),
		newSegmentsCmd(c),
		newSegmentCmd(c),
		newHistogramCmd(c),
		newModelsCmd(),
		newExportCmd(c),
	)
	return rootCmd
}

func (c *cli) queries(ctx context.Context) (*analysis.Queries, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	table, err := c.cache.Load(ctx, c.source)
	if err != nil {
		return nil, err
	}
	return analysis.New(table,
		analysis.WithDisplayLimit(c.limit),
		analysis.WithHistogramBins(c.bins),
	), nil
}

func newOverviewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show total customers, churn rate and high-value churners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.queries(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := q.CLVSummary()
			if err != nil {
				return err
			}
			renderOverview(cmd.OutOrStdout(), q.Overview(), summary)
			return nil
		},
	}
}

func newGroupsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Show the CustomerGroup distribution, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.queries(cmd.Context())
			if err != nil {
				return err
			}
			renderGroups(cmd.OutOrStdout(), q.GroupDistribution())
			return nil
		},
	}
}

func newSegmentsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "List the distinct customer groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.queries(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range q.Segments() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newSegmentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "segment [name]",
		Short: "Show the customers of one group",
		Long: `Show CustomerID, EstimatedCLV, CLVSegment, Churn and CustomerGroup for the
customers whose CustomerGroup equals name, in dataset order.

Example: churnboard-cli segment "High Value - Churn"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.queries(cmd.Context())
			if err != nil {
				return err
			}
			renderSegment(cmd.OutOrStdout(), q.FilterBySegment(args[0]))
			return nil
		},
	}
}

func newHistogramCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "histogram",
		Short: "Show the EstimatedCLV histogram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := c.queries(cmd.Context())
			if err != nil {
				return err
			}
			renderHistogram(cmd.OutOrStdout(), q.CLVHistogram())
			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Compare the Random Forest and XGBoost evaluation scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderModels(cmd.OutOrStdout())
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var segment string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the dashboard figures to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			q, err := c.queries(cmd.Context())
			if err != nil {
				return err
			}
			report, err := excel.BuildReport(q, segment)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := excel.WriteReport(f, report); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d rows) in %v\n", args[0], q.Table().Len(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&segment, "segment", "", "Also export the customers of this group")
	return cmd
}
