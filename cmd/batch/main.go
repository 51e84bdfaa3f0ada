package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/llmrelay/llmrelay"
	"github.com/llmrelay/llmrelay/internal/batchio"
	"github.com/llmrelay/llmrelay/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input file relative path")
	output := flag.String("output", "", "Output file relative path")
	format := flag.String("format", "jsonl", "Output file format. Supported formats: 'jsonl', 'summary'")
	workers := flag.Int("workers", 5, "Concurrent request workers")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on request failures")
	dryRun := flag.Bool("dry-run", false, "Validate input without sending requests")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}
	formatValidator(format)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	// Read records
	reader := batchio.NewReader(inputFile, deps.Logger)
	recordsCh := reader.ReadAll(ctx)

	var records []batchio.InputRecord
	for record := range recordsCh {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	// Dry run validation
	if *dryRun {
		dryRunAndExit(records)
	}

	parseErrors := 0
	items := make([]llmrelay.BatchItem, 0, len(records))
	for _, record := range records {
		if record.Error != nil {
			log.Error().Int("line", record.LineNumber).Err(record.Error).Msg("Skipping malformed line")
			parseErrors++
			if !*continueOnError {
				log.Fatal().Msg("Stopping due to parse error")
			}
			continue
		}
		items = append(items, record.Request.Item())
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	// Create writer
	writer, err := batchio.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	// Dispatch with bounded concurrency
	result := deps.Client.Parallel(ctx, llmrelay.Batch{
		Items:       items,
		Concurrency: *workers,
		OnResponse: func(r llmrelay.Result, index int, key string) {
			log.Debug().
				Str("key", key).
				Int("index", index).
				Bool("success", r.Succeeded()).
				Msg("Item finished")
		},
	})

	// Write results
	writeErrors := 0
	for _, item := range result.Results {
		if err := writer.Write(item); err != nil {
			log.Error().Err(err).Str("key", item.Key).Msg("Failed to write result")
			writeErrors++

			if !*continueOnError {
				log.Fatal().Msg("Stopping due to write error")
			}
		}
	}

	if err := writer.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to finalize output")
	}

	stats := writer.Stats()
	log.Info().
		Int("success", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("parse_errors", parseErrors).
		Int("write_errors", writeErrors).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func formatValidator(format *string) {
	validFormats := map[string]bool{"jsonl": true, "summary": true}
	if !validFormats[*format] {
		log.Fatal().
			Str("format", *format).
			Msg("Invalid format. Supported: jsonl, summary")
	}
}

func dryRunAndExit(records []batchio.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}
