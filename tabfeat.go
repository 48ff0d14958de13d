package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tabfeat/pkg"
)

func FitCommand() *cobra.Command {
	var params pkg.FitParameters

	var cmd = &cobra.Command{
		Use:   "fit -i trainData -c pipeline.yaml -o modelFile",
		Short: "Fits the configured feature pipeline on the training data and saves it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Fit(params)
		},
	}

	cmd.Flags().StringVarP(&params.TrainFile, "train-file", "i", "", "name of train file")
	cmd.Flags().StringVarP(&params.ConfigFile, "config", "c", "", "pipeline configuration file (yaml)")
	cmd.Flags().StringVarP(&params.OutputFile, "output-file", "o", "", "name of the file to save the fitted pipeline to, compressed when it ends in .zst")
	cmd.Flags().StringVarP(&params.TransformedFile, "transformed-file", "t", "", "name of the file to write the transformed training data to (optional)")

	_ = cmd.MarkFlagRequired("train-file")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("output-file")

	return cmd
}

func TransformCommand() *cobra.Command {
	var modelFile string
	var inputFile string
	var outputFile string

	var cmd = &cobra.Command{
		Use:   "transform -m modelFile -i dataFile [-o outputFile]",
		Short: "Applies a fitted pipeline to the data and writes the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Transform(modelFile, inputFile, outputFile, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&modelFile, "model", "m", "", "name of fitted pipeline file")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of data input file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file (optional, uses stdout if not present)")

	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func SplitCommand() *cobra.Command {
	var params pkg.SplitParameters

	var cmd = &cobra.Command{
		Use:   "split -i data --train trainFile --test testFile",
		Short: "Splits a data file into train and test files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Split(params)
		},
	}

	cmd.Flags().StringVarP(&params.DataFile, "input", "i", "", "name of data input file")
	cmd.Flags().StringVarP(&params.TrainFile, "train", "", "", "name of train output file")
	cmd.Flags().StringVarP(&params.TestFile, "test", "", "", "name of test output file")
	cmd.Flags().Float64VarP(&params.TestFraction, "test-fraction", "f", 0.2, "fraction of rows held out for testing")
	cmd.Flags().BoolVarP(&params.Shuffle, "shuffle", "s", false, "shuffle rows before splitting instead of holding out the last rows")
	cmd.Flags().Int64VarP(&params.RndSeed, "random-seed", "x", 42, "random seed")
	cmd.Flags().StringVarP(&params.IndexColumn, "index-column", "", "", "time column ordering the rows (optional)")
	cmd.Flags().StringVarP(&params.TimeLayout, "time-layout", "", "", "time layout of the index column, RFC3339 by default")
	cmd.Flags().StringSliceVarP(&params.CategoricalColumns, "categorical-columns", "", nil, "list of columns holding categorical data")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")

	return cmd
}

var logLevel string
var logFormat string

func RootCommand() *cobra.Command {
	root := &cobra.Command{Use: "tabfeat", PersistentPreRunE: setupLogging, SilenceUsage: true}

	root.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	root.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	root.AddCommand(FitCommand())
	root.AddCommand(TransformCommand())
	root.AddCommand(SplitCommand())
	return root
}

func main() {
	if err := RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
