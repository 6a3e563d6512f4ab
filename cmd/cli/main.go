package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"regdiag/adapters/api"
	"regdiag/app"
	"regdiag/domain/dataset"
	"regdiag/internal/config"
	"regdiag/internal/container"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "regdiag",
		Short: "Regression model performance diagnostics",
	}

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type evaluateOptions struct {
	referencePath    string
	targetColumn     string
	predictionColumn string
	sheet            string
	jsonOutput       bool
	outFile          string
}

func newEvaluateCmd() *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate [current-file]",
		Short: "Evaluate regression performance from a predictions file",
		Long: `Evaluate regression model performance from a CSV or XLSX file of
targets and predictions. Supplying a reference file adds side-by-side
error distributions and per-feature error bias.

Example: regdiag evaluate current.csv --reference training.csv --target y --prediction y_hat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.referencePath, "reference", "", "Reference dataset file for comparison")
	cmd.Flags().StringVar(&opts.targetColumn, "target", dataset.DefaultTargetColumn, "Target column name")
	cmd.Flags().StringVar(&opts.predictionColumn, "prediction", dataset.DefaultPredictionColumn, "Prediction column name")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Worksheet name for XLSX files (default from XLSX_SHEET)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the full report as JSON")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Save the full JSON report to a file")

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the evaluation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				fmt.Println("No .env file found, using system environment variables")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			c, err := container.New(cfg)
			if err != nil {
				return err
			}
			return api.NewServer(cfg, c.Evaluation).Start()
		},
	}
}

func runEvaluate(ctx context.Context, currentPath string, opts evaluateOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.sheet != "" {
		cfg.Data.XLSXSheet = opts.sheet
	}
	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	report, err := c.Evaluation.EvaluateFiles(ctx, app.FileEvaluationRequest{
		CurrentPath:   currentPath,
		ReferencePath: opts.referencePath,
		Mapping:       dataset.NewColumnMapping(opts.targetColumn, opts.predictionColumn),
	})
	if err != nil {
		return err
	}

	printSummary(report)

	if opts.jsonOutput || opts.outFile != "" {
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if opts.jsonOutput {
			fmt.Println(string(jsonData))
		}
		if opts.outFile != "" {
			if err := os.WriteFile(opts.outFile, jsonData, 0o644); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("\n💾 Report saved to: %s\n", opts.outFile)
		}
	}
	return nil
}

func printSummary(report *app.EvaluationReport) {
	res := report.Result

	fmt.Printf("\n📊 REGRESSION PERFORMANCE\n")
	fmt.Printf("Run: %s (%d current rows", report.RunID, report.CurrentRows)
	if report.ReferencePath != "" {
		fmt.Printf(", %d reference rows", report.ReferenceRows)
	}
	fmt.Printf(", %dms)\n", report.RuntimeMs)

	fmt.Printf("\nR2 Score:           %.4f\n", res.R2Score)
	fmt.Printf("Mean Squared Error: %.4f\n", res.MeanSquaredError)
	fmt.Printf("Mean Error:         %.4f\n", res.MeanError)
	fmt.Printf("Mean Abs Error:     %.4f\n", res.MeanAbsError)
	fmt.Printf("Mean Abs Perc Err:  %.2f%%\n", res.MeanAbsPercError)
	fmt.Printf("Max Abs Error:      %.4f\n", res.AbsErrorMax)

	verdict := "not normal"
	if res.ErrorNormality.IsNormal {
		verdict = "normal"
	}
	fmt.Printf("Error Normality:    %s (p=%.4f)\n", verdict, res.ErrorNormality.PValue)

	u := res.Underperformance
	fmt.Printf("\nUNDERPERFORMANCE SEGMENTS\n")
	fmt.Printf("Majority:        mean %+.4f, std %.4f\n", u.Majority.MeanError, u.Majority.StdError)
	fmt.Printf("Underestimation: mean %+.4f, std %.4f\n", u.Underestimation.MeanError, u.Underestimation.StdError)
	fmt.Printf("Overestimation:  mean %+.4f, std %.4f\n", u.Overestimation.MeanError, u.Overestimation.StdError)

	if len(res.BinnedMAE) > 0 {
		fmt.Printf("\nMAE BY TARGET RANGE\n")
		for _, entry := range res.BinnedMAE {
			fmt.Printf("%-20s mae=%.4f n=%d\n", entry.Interval.String(), entry.MAE, entry.Count)
		}
	}

	if len(res.ErrorBias) > 0 {
		features := make([]string, 0, len(res.ErrorBias))
		for name := range res.ErrorBias {
			features = append(features, name)
		}
		sort.Strings(features)

		fmt.Printf("\nERROR BIAS BY FEATURE (segment means, reference vs current)\n")
		for _, name := range features {
			bias := res.ErrorBias[name]
			fmt.Printf("%-20s majority %.4f -> %.4f  under %.4f -> %.4f  over %.4f -> %.4f\n",
				name,
				bias.RefMajority, bias.CurrentMajority,
				bias.RefUnder, bias.CurrentUnder,
				bias.RefOver, bias.CurrentOver)
		}
	}
}
