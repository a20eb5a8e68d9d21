package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-notifier/src/pkg/config"
	echomw "sales-notifier/src/pkg/echo-middleware"
	"sales-notifier/src/pkg/email"
	"sales-notifier/src/pkg/extract"
	"sales-notifier/src/pkg/notifier"
	"sales-notifier/src/pkg/storage"
)

/*
main runs the HTTP trigger service. The scheduler POSTs / to run the
report; the handler builds a fresh pipeline per request so a failed run
leaves no state behind.
*/
func main() {
	config.CheckIfEnvVarsPresent(
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", // object store + ses
		echomw.EnvTriggerBearerToken,
	)

	// common flags
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	// parse and init config
	flag.Parse()
	config.InitializeConfig(*configPath)

	echomw.UpdateRateLimits(echomw.Cfg.MiddlewareRateLimit, echomw.Cfg.MiddlewareBurst)

	server := echo.New()
	server.HideBanner = true
	server.Use(echomw.RouteAccessLoggerMiddleware)
	server.Use(echomw.RateLimiterMiddleware)

	server.GET("/healthz", handleHealth)
	server.POST("/", handleTrigger, echomw.RequireBearerToken)

	address := fmt.Sprintf("%s:%d", echomw.Cfg.Address, echomw.Cfg.Port)
	tl.Log(tl.Notice, palette.BlueBold, "%s listening on '%s'", "sales-notifier", address)
	xerr.QuitIfError(server.Start(address), "Unable to start server")
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

/*
handleTrigger runs the full report pipeline synchronously. The scheduler's
request timeout is generous, and a synchronous response lets it retry on
failure.
*/
func handleTrigger(c echo.Context) error {
	ctx := c.Request().Context()
	startedAt := time.Now()

	sheetsSource, e := extract.NewSheetsSource(ctx, config.Cfg.Sheets.SpreadsheetID, config.Cfg.Sheets.ReadRange)
	if e != nil {
		return triggerFailed(c, e)
	}

	store, e := storage.NewStore(ctx, config.Cfg.Storage.Region, config.Cfg.Storage.Bucket)
	if e != nil {
		return triggerFailed(c, e)
	}

	sendEmails := true
	pipeline := &notifier.Pipeline{
		Extracts: &notifier.WorkbookExtractSource{
			Store:       store,
			ExtractKeys: config.Cfg.Storage.ExtractKeys,
			DownloadDir: config.Cfg.Storage.DownloadDir,
		},
		Movements: &notifier.SheetsMovementSource{Source: sheetsSource},
		Send: notifier.ProviderSender{
			Provider:   email.Provider(config.Cfg.Report.Provider),
			SendEmails: &sendEmails,
		},
		Archive: store,
		Options: notifier.Options{
			Sender:          config.Cfg.Report.Sender,
			Recipients:      config.Cfg.Report.Recipients,
			BusinessLine:    config.Cfg.Report.BusinessLine,
			CategoryPattern: config.Cfg.Report.CategoryPattern,
			WeekWindow:      config.Cfg.Report.WeekWindow,
			SubjectPrefix:   config.Cfg.Report.SubjectPrefix,
		},
	}

	bundle, e := pipeline.Run(ctx)
	if e != nil {
		return triggerFailed(c, e)
	}

	tl.Log(tl.Notice, palette.Green, "Report '%s' sent in %s", bundle.Subject, time.Since(startedAt).Round(time.Millisecond))
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "sent",
		"subject": bundle.Subject,
	})
}

func triggerFailed(c echo.Context, e *xerr.Error) error {
	tl.Log(tl.Error, palette.RedBold, "Report run failed: %v", e)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"status": "failed",
		"error":  fmt.Sprintf("%v", e),
	})
}
