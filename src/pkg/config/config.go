/*
Package config loads the notifier's JSON configuration file and exposes it
through the package-level Cfg. Secrets never live in the file; they are
environment variables checked up front with CheckIfEnvVarsPresent.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	echomw "sales-notifier/src/pkg/echo-middleware"
)

type ReportConfig struct {
	Recipients      []string `json:"recipients,omitempty"`
	Sender          string   `json:"sender,omitempty"`
	Provider        string   `json:"provider,omitempty"`
	BusinessLine    string   `json:"business_line,omitempty"`
	CategoryPattern string   `json:"category_pattern,omitempty"`
	WeekWindow      int      `json:"week_window,omitempty"`
	SubjectPrefix   string   `json:"subject_prefix,omitempty"`
}

type StorageConfig struct {
	Region      string   `json:"region,omitempty"`
	Bucket      string   `json:"bucket,omitempty"`
	ExtractKeys []string `json:"extract_keys,omitempty"`
	DownloadDir string   `json:"download_dir,omitempty"`
}

type SheetsConfig struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	ReadRange     string `json:"read_range,omitempty"`
}

type DatabaseConfig struct {
	DSNEnvVar          string `json:"dsn_env_var,omitempty"`
	SalesProcedure     string `json:"sales_procedure,omitempty"`
	CreditsProcedure   string `json:"credits_procedure,omitempty"`
	BudgetProcedure    string `json:"budget_procedure,omitempty"`
}

type Config struct {
	Report   ReportConfig   `json:"report,omitempty"`
	Storage  StorageConfig  `json:"storage,omitempty"`
	Sheets   SheetsConfig   `json:"sheets,omitempty"`
	Database DatabaseConfig `json:"database,omitempty"`
	Serve    *echomw.Config `json:"serve,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Report: ReportConfig{
			Provider:        "mailgun",
			BusinessLine:    "Restaurant",
			CategoryPattern: `(?i)whole chicken|pollo c/m|pollo s/m`,
			WeekWindow:      10,
			SubjectPrefix:   "Daily sales report",
		},
		Storage: StorageConfig{
			Region:      "us-east-1",
			DownloadDir: "./tmp/extracts",
		},
		Sheets: SheetsConfig{
			ReadRange: "A1:ZZ",
		},
		Database: DatabaseConfig{
			DSNEnvVar:          "NOTIFIER_DATABASE_DSN",
			SalesProcedure:     "reporting.daily_sales",
			CreditsProcedure:   "reporting.daily_credit_notes",
			BudgetProcedure:    "reporting.monthly_budget",
		},
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig() // this one we use to access config values from anywhere

/*
InitializeConfig reads the JSON file at path into Cfg, falling back to
default values for every missing field, then hands package sections to
their owners. A missing file is fatal: a deployment without configuration
is a deployment mistake.
*/
func InitializeConfig(path string) {
	fileContentBytes, readErr := os.ReadFile(path)
	xerr.QuitIfError(readErr, fmt.Sprintf("Unable to read config file '%s'", path))

	loaded := Config{}
	xerr.QuitIfError(json.Unmarshal(fileContentBytes, &loaded), fmt.Sprintf("Unable to parse config file '%s'", path))

	defaultConfig := DefaultValueConfig()
	Cfg = loaded

	tl.ApplyDefaults(&Cfg.Report, defaultConfig.Report, logMissingField)
	tl.ApplyDefaults(&Cfg.Storage, defaultConfig.Storage, logMissingField)
	tl.ApplyDefaults(&Cfg.Sheets, defaultConfig.Sheets, logMissingField)
	tl.ApplyDefaults(&Cfg.Database, defaultConfig.Database, logMissingField)

	echomw.InitializeConfig(Cfg.Serve)

	tl.Log(tl.Info, palette.Green, "%s config was %s from '%s'", "sales-notifier", "loaded", path)
	tl.LogJSON(tl.Verbose, palette.CyanDim, "sales-notifier configuration", Cfg)
}

func logMissingField(field string, defVal any) {
	tl.Log(
		tl.Info, palette.Purple,
		"%s field is %s in %s configuration. Using default value: %v",
		field, "missing", GetPackageName(), tl.PrettyForStderr(defVal),
	)
}

/*
CheckIfEnvVarsPresent loads .env if one exists and then exits when any of
the named environment variables is missing or blank.
*/
func CheckIfEnvVarsPresent(names ...string) {
	loadErr := godotenv.Load()
	if loadErr == nil {
		tl.Log(tl.Info, palette.Purple, "Loaded environment from %s", ".env")
	}

	missing := false
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s environment variable is %s", name, "required")
			missing = true
		}
	}
	if missing {
		os.Exit(1)
	}
}

/*
GetPackageName reports the package directory of the caller, for log lines
that name which configuration section they talk about.
*/
func GetPackageName() string {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	parts := strings.Split(file, "/")
	if len(parts) < 2 {
		return file
	}
	return parts[len(parts)-2]
}
