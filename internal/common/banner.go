package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888888 .d88888b.  888      8888888 .d88888b.`,
		` 888       d88P" "Y88b 888        888  d88P" "Y88b`,
		` 888       888     888 888        888  888     888`,
		` 8888888   888     888 888        888  888     888`,
		` 888       888     888 888        888  888     888`,
		` 888       888     888 888        888  888     888`,
		` 888       Y88b. .d88P 888        888  Y88b. .d88P`,
		` 888        "Y88888P"  88888888 8888888 "Y88888P"`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  version   %s\n", GetFullVersion())
	fmt.Fprintf(os.Stderr, "  account   %s\n", config.AccountID)
	fmt.Fprintf(os.Stderr, "  storage   %s\n", config.Storage.Path)
	fmt.Fprintf(os.Stderr, "  env       %s\n", config.Environment)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	logger.Info().
		Str("version", GetVersion()).
		Str("build", GetBuild()).
		Str("account", config.AccountID).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Path).
		Msg("Application started")
}
