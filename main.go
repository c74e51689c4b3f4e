package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/notion2md/internal/commands"
	"github.com/gerunddev/notion2md/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "export":
		commands.Export(os.Args[2:])
	case "pages":
		commands.Pages(os.Args[2:])
	case "render":
		commands.Render(os.Args[2:])
	case "preview":
		commands.Preview(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "status":
		commands.Status(os.Args[2:])
	case "init":
		commands.Init(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("notion2md v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`notion2md - Publish a Notion database as Markdown files

Usage:
  notion2md <command> [options]

Commands:
  export      Export every page that is due (use --dry-run to preview)
  pages       Browse the requested pages and their export status
  render      Print one page as Markdown (or HTML with --html)
  preview     Show one page rendered in the terminal
  diff        Compare one page with an exported file
  status      Show configuration and the last export
  init        Write a default config file
  version     Show version information
  help        Show this help message

Examples:
  notion2md init --database https://www.notion.so/team/0123456789abcdef0123456789abcdef
  notion2md export
  notion2md export --dry-run --plain
  notion2md pages --force
  notion2md render 0123456789abcdef0123456789abcdef --html
  notion2md preview 0123456789abcdef0123456789abcdef
  notion2md diff 0123456789abcdef0123456789abcdef output/2024/01/hello/index.md --body-only

Configuration:
  Config file: %s
  Token:       $%s

Run 'notion2md <command> --help' for command flags.
`, config.ConfigPath(), config.TokenEnv)
	fmt.Print(usage)
}
