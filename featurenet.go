package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"featurenet/pkg"
	"featurenet/pkg/config"
	"featurenet/pkg/model"
	"featurenet/pkg/ranking"
)

func TrainCommand(env config.Environment) *cobra.Command {
	var trainFile string
	var configFile string
	var outputDir string
	trainingParameters := pkg.DefaultTrainingParameters()
	modelParameters := model.DefaultNetworkConfig()

	var cmd = &cobra.Command{
		Use:   "train -i trainData -c datasetConfig [-o trainedDir]",
		Short: "Trains a new model on the provided dataset and saves it with its vocabulary",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Train(cmd.Context(), afero.NewOsFs(), trainFile, configFile, outputDir, modelParameters, trainingParameters)
		},
	}

	cmd.Flags().StringVarP(&trainFile, "train-file", "i", "", "name of train file")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "dataset config file (optional, listed shape if not present)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", env.TrainedDir, "directory to save the trained model to")
	cmd.Flags().IntVarP(&trainingParameters.BatchSize, "batch-size", "b", trainingParameters.BatchSize, "batch size")
	cmd.Flags().Float64VarP(&trainingParameters.LearningRate, "learning-rate", "l", trainingParameters.LearningRate, "learning rate")
	cmd.Flags().Float64VarP(&trainingParameters.Momentum, "momentum", "", trainingParameters.Momentum, "momentum")
	cmd.Flags().IntVarP(&trainingParameters.LogPeriod, "report-interval", "r", trainingParameters.LogPeriod, "error report interval")
	cmd.Flags().IntVarP(&trainingParameters.Iterations, "iterations", "n", trainingParameters.Iterations, "maximum number of training iterations")
	cmd.Flags().Float64VarP(&trainingParameters.ErrorThresh, "error-threshold", "e", trainingParameters.ErrorThresh, "stop once the training error is below this value")
	cmd.Flags().DurationVarP(&trainingParameters.Timeout, "timeout", "", trainingParameters.Timeout, "maximum training time (0 for none)")
	cmd.Flags().Float64VarP(&trainingParameters.ValidationSplit, "validation-split", "", trainingParameters.ValidationSplit, "fraction of samples held out for validation")
	cmd.Flags().Uint64VarP(&trainingParameters.RndSeed, "random-seed", "x", trainingParameters.RndSeed, "random seed")

	cmd.Flags().IntSliceVarP(&modelParameters.HiddenLayers, "hidden-layers", "", modelParameters.HiddenLayers, "size of each hidden layer")
	cmd.Flags().StringVarP(&modelParameters.Activation, "activation", "a", modelParameters.Activation, "activation: sigmoid, relu, leaky-relu or tanh")

	_ = cmd.MarkFlagRequired("train-file")

	return cmd
}

func TestCommand(env config.Environment) *cobra.Command {
	var modelDir string
	var inputFile string
	var outputFile string
	var options ranking.Options

	var cmd = &cobra.Command{
		Use:   "test [-m trainedDir] [-i testData] [-o outputFile]",
		Short: "Runs the trained model on the specified data input and prints the ranked predictions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Test(afero.NewOsFs(), modelDir, inputFile, outputFile, options, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&modelDir, "model", "m", env.TrainedDir, "directory of the trained model")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of data input file (optional, uses the training dataset if not present)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of CSV report file (optional)")
	cmd.Flags().IntVarP(&options.TopN, "top-n", "t", 0, "number of predictions to show per label (0 for all)")
	cmd.Flags().BoolVarP(&options.PositiveOnly, "positive-only", "p", false, "only show predictions with a positive score")

	return cmd
}

var logLevel string
var logFormat string

func RootCommand(env config.Environment) *cobra.Command {
	Main := &cobra.Command{Use: "featurenet", PersistentPreRunE: setupLogging, SilenceUsage: true}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", env.LogLevel, "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", env.LogFormat, "Logging format: pretty or json")

	Main.AddCommand(TrainCommand(env))
	Main.AddCommand(TestCommand(env))
	return Main
}

func main() {
	env, err := config.LoadEnvironment()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid environment")
	}

	if err := RootCommand(env).ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("")
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
