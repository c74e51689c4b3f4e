package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gerunddev/notion2md/internal/config"
	"github.com/gerunddev/notion2md/internal/styles"
)

// Init writes a default configuration file
func Init(args []string) {
	fs := pflag.NewFlagSet("init", pflag.ExitOnError)
	overwrite := fs.Bool("force", false, "Overwrite an existing config file")
	database := fs.StringP("database", "d", "", "Notion database ID or URL")
	template := fs.StringP("output", "o", config.DefaultOutputTemplate, "Output directory template")
	logFile := fs.String("log-file", "", "Log file path")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !*overwrite {
		fmt.Println(styles.DimStyle.Render("Config already exists at " + path))
		fmt.Println(styles.DimStyle.Render("  Use --force to overwrite it"))
		return
	}

	cfg := config.DefaultConfig()
	cfg.DatabaseID = *database
	cfg.OutputTemplate = *template
	cfg.LogFile = *logFile

	if err := cfg.Save(); err != nil {
		fail("Failed to write config", err)
	}

	fmt.Println(styles.Success("Wrote " + path))
	if cfg.DatabaseID == "" {
		fmt.Println(styles.DimStyle.Render("  Set database_id before running 'notion2md export'"))
	}
	fmt.Println(styles.DimStyle.Render("  Provide the integration token via " + config.TokenEnv))
}

// Status shows the effective configuration and the last export run
func Status(args []string) {
	fs := pflag.NewFlagSet("status", pflag.ExitOnError)
	flags := addCommonFlags(fs)
	lines := fs.IntP("lines", "n", 10, "Recent log lines to show")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(fs, flags)
	if err != nil {
		fail("Error loading config", err)
	}

	fmt.Println(styles.TitleStyle.Render("notion2md status"))
	fmt.Println()
	row := func(label, value string) {
		fmt.Printf("  %s %s\n", styles.DimStyle.Render(fmt.Sprintf("%-12s", label)), value)
	}
	row("Config", config.ConfigPath())
	row("Database", orNone(cfg.DatabaseID))
	row("Output", cfg.OutputTemplate)
	row("Token", tokenState(cfg.NotionToken))
	row("Concurrency", fmt.Sprint(cfg.Concurrency))
	row("Timeout", cfg.PageTimeout.String())

	if err := cfg.Validate(); err != nil {
		fmt.Println()
		fmt.Println(styles.Warning(err.Error()))
	}

	if cfg.LogFile == "" {
		return
	}

	recent, run, err := ParseLogFile(cfg.LogFile, *lines)
	fmt.Println()
	if err != nil {
		fmt.Println(styles.DimStyle.Render("No log yet at " + cfg.LogFile))
		return
	}

	if run == nil {
		fmt.Println(styles.DimStyle.Render("No completed export in the log"))
	} else {
		msg := fmt.Sprintf("Last export %s: %d page(s)", run.Time.Format("2006-01-02 15:04"), run.Exported)
		if run.Errors > 0 {
			fmt.Println(styles.Warning(fmt.Sprintf("%s, %d error(s)", msg, run.Errors)))
		} else {
			fmt.Println(styles.Success(msg))
		}
	}

	fmt.Println()
	fmt.Println(styles.HighlightStyle.Render("Recent log"))
	for _, line := range recent {
		fmt.Println(styles.HelpStyle.Render("  " + line))
	}
}

func orNone(s string) string {
	if s == "" {
		return styles.WarningStyle.Render("(not set)")
	}
	return s
}

func tokenState(token string) string {
	if token == "" {
		return styles.WarningStyle.Render("(not set)")
	}
	return styles.SuccessStyle.Render("set")
}
