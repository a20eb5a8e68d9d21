package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-notifier/src/pkg/config"
	"sales-notifier/src/pkg/email"
	"sales-notifier/src/pkg/extract"
	"sales-notifier/src/pkg/notifier"
	"sales-notifier/src/pkg/storage"
)

/*
main runs the daily sales report once and exits.

-source picks where the ERP extracts come from:
  - "s3": workbook files downloaded from the object store
  - "db": reporting stored procedures run against the ERP database

With -dry-run the rendered HTML is written to -o instead of being emailed.
*/
func main() {
	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Program-specific flags.
	source := flag.String("source", "s3", "Extract source: s3 or db")
	dateFlag := flag.String("date", "", "Report date YYYY-MM-DD for the db source (default: yesterday)")
	dryRun := flag.Bool("dry-run", false, "Render the report to a file instead of sending it")
	outputPath := flag.String("o", "./tmp/report.html", "Output HTML path for -dry-run")
	movementsPath := flag.String("movements", "", "Local movement-form workbook; default is the configured Google sheet")

	flag.Parse()
	config.InitializeConfig(*configPath)

	reportDate, dateErr := resolveReportDate(*dateFlag)
	xerr.QuitIfError(dateErr, fmt.Sprintf("Unable to parse -date '%s'", *dateFlag))

	ctx := context.Background()

	tl.Log(
		tl.Notice, palette.BlueBold, "%s entrypoint. Source: '%s', date: '%s'",
		"report", *source, reportDate.Format("2006-01-02"),
	)

	pipeline, cleanup, e := buildPipeline(ctx, *source, reportDate, *dryRun, *movementsPath)
	e.QuitIf("error")
	defer cleanup()

	if *dryRun {
		bundle, buildErr := pipeline.Build(ctx)
		buildErr.QuitIf("error")

		mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0o755)
		xerr.QuitIfError(mkdirErr, "create output directory")
		writeErr := os.WriteFile(*outputPath, []byte(bundle.HTMLBody), 0o644)
		xerr.QuitIfError(writeErr, "write HTML report file")

		tl.Log(tl.Info1, palette.Green, "Saved report '%s' to '%s'", bundle.Subject, *outputPath)
		return
	}

	bundle, runErr := pipeline.Run(ctx)
	runErr.QuitIf("error")

	tl.Log(tl.Notice, palette.Green, "Report '%s' sent to %v", bundle.Subject, pipeline.Options.Recipients)
}

/*
buildPipeline assembles the pipeline for the chosen extract source. The
returned cleanup closes whatever the source opened.
*/
func buildPipeline(ctx context.Context, source string, reportDate time.Time, dryRun bool, movementsPath string) (pipeline *notifier.Pipeline, cleanup func(), e *xerr.Error) {
	cleanup = func() {}

	var movements notifier.MovementSource
	if movementsPath != "" {
		movements = &notifier.FileMovementSource{Path: movementsPath}
	} else {
		sheetsSource, sheetsErr := extract.NewSheetsSource(ctx, config.Cfg.Sheets.SpreadsheetID, config.Cfg.Sheets.ReadRange)
		if sheetsErr != nil {
			return nil, cleanup, sheetsErr
		}
		movements = &notifier.SheetsMovementSource{Source: sheetsSource}
	}

	sendEmails := !dryRun
	pipeline = &notifier.Pipeline{
		Movements: movements,
		Send: notifier.ProviderSender{
			Provider:   email.Provider(config.Cfg.Report.Provider),
			SendEmails: &sendEmails,
		},
		Options: notifier.Options{
			Sender:          config.Cfg.Report.Sender,
			Recipients:      config.Cfg.Report.Recipients,
			BusinessLine:    config.Cfg.Report.BusinessLine,
			CategoryPattern: config.Cfg.Report.CategoryPattern,
			WeekWindow:      config.Cfg.Report.WeekWindow,
			SubjectPrefix:   config.Cfg.Report.SubjectPrefix,
		},
	}

	switch source {
	case "s3":
		config.CheckIfEnvVarsPresent("AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY")

		store, storeErr := storage.NewStore(ctx, config.Cfg.Storage.Region, config.Cfg.Storage.Bucket)
		if storeErr != nil {
			return nil, cleanup, storeErr
		}
		pipeline.Extracts = &notifier.WorkbookExtractSource{
			Store:       store,
			ExtractKeys: config.Cfg.Storage.ExtractKeys,
			DownloadDir: config.Cfg.Storage.DownloadDir,
		}
		pipeline.Archive = store

	case "db":
		config.CheckIfEnvVarsPresent(config.Cfg.Database.DSNEnvVar)

		runner, runnerErr := extract.NewProcedureRunner(ctx, os.Getenv(config.Cfg.Database.DSNEnvVar))
		if runnerErr != nil {
			return nil, cleanup, runnerErr
		}
		cleanup = runner.Close
		pipeline.Extracts = &notifier.ProcedureExtractSource{
			Runner:           runner,
			ReportDate:       reportDate,
			SalesProcedure:   config.Cfg.Database.SalesProcedure,
			CreditsProcedure: config.Cfg.Database.CreditsProcedure,
			BudgetProcedure:  config.Cfg.Database.BudgetProcedure,
		}

	default:
		e = xerr.NewError(fmt.Errorf("unknown source '%s'", source), "build pipeline", "expected s3 or db")
		return nil, cleanup, e
	}

	return pipeline, cleanup, e
}

func resolveReportDate(raw string) (time.Time, error) {
	if raw == "" {
		yesterday := time.Now().AddDate(0, 0, -1)
		return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}
