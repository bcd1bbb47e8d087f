package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwvelando/mortgage-amortization/internal/config"
	"github.com/iwvelando/mortgage-amortization/internal/logging"
	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
	"github.com/iwvelando/mortgage-amortization/pkg/output"
	"github.com/iwvelando/mortgage-amortization/pkg/validation"
	"go.uber.org/zap"
)

const insufficientInputMessage = "Please enter valid loan amount and interest rate..."

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, time.Now))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, now func() time.Time) int {
	flags := flag.NewFlagSet("amortize", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configLocation := flags.String("config", constants.DefaultConfigFile, "path to configuration file, - for stdin")
	outputFormatFlag := flags.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flags.String("log-level", "", "log level override (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	conf, err := loadConfiguration(*configLocation, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return 1
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	outputFormat, err = validation.ParseOutputFormat(outputFormat)
	if err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		return 1
	}

	inputs, err := conf.Loan.ToLoanInputs(now())
	if err != nil {
		logger.Error("failed to read loan inputs",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	for _, warning := range conf.Loan.Validate(inputs) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	opts, err := conf.Loan.EngineOptions()
	if err != nil {
		logger.Error("invalid engine options",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	result, err := loans.NewEngine(logger, opts...).Compute(inputs)
	if err != nil {
		if errors.Is(err, loans.ErrInsufficientInput) {
			fmt.Fprintln(stderr, insufficientInputMessage)
		}
		logger.Error("failed to compute amortization schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}

	if err := writeOutput(stdout, outputFormat, &conf.Loan, result); err != nil {
		logger.Error("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return 1
	}
	return 0
}

func loadConfiguration(location string, stdin io.Reader) (*config.Configuration, error) {
	if location == "-" {
		return config.LoadConfigurationFromReader(stdin)
	}
	return config.LoadConfiguration(location)
}

func writeOutput(w io.Writer, outputFormat string, loan *config.Loan, result *loans.Result) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, result)
	default:
		details, err := loan.Details()
		if err != nil {
			return err
		}
		if err := output.WriteSummaryTable(w, output.SummaryTable(details, result.Summary)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return output.PrettyFormat(w, result, loan.Symbol())
	}
}
