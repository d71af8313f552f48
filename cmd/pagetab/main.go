// Command pagetab fetches web pages and flattens their element trees into
// analyzable tables (xlsx workbooks, sqlite databases, or XML documents).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/fetch"
	pagehtml "github.com/pagetab/pagetab/html"
	pagehttp "github.com/pagetab/pagetab/http"
	"github.com/pagetab/pagetab/rod"
	pageslog "github.com/pagetab/pagetab/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface.
type CLI struct {
	Output      string        `short:"o" help:"Output file (default derived from format)"`
	Format      string        `short:"f" default:"xlsx" enum:"xlsx,sqlite,xml" help:"Output format"`
	Tags        string        `short:"t" help:"Filter by tags (comma-separated)"`
	Images      bool          `short:"i" help:"Extract images to a separate sheet"`
	Links       bool          `short:"l" help:"Extract links to a separate sheet"`
	MinLevel    *int          `help:"Keep only elements at or below this depth from the root"`
	MaxLevel    *int          `help:"Keep only elements at or above this depth from the root"`
	HasText     bool          `help:"Keep only elements with text content"`
	HasClass    bool          `help:"Keep only elements with a class attribute"`
	HasID       bool          `name:"has-id" help:"Keep only elements with an id attribute"`
	UserAgent   string        `short:"u" help:"Custom User-Agent"`
	Retries     int           `short:"r" default:"3" help:"Max fetch retries"`
	Delay       time.Duration `short:"d" default:"1s" help:"Base delay between retries"`
	Timeout     time.Duration `default:"30s" help:"Fetch timeout per page"`
	Render      bool          `help:"Render pages with a headless browser before flattening"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent fetch limit"`
	Verbose     bool          `short:"v" help:"Verbose logging"`
	URLs        []string      `arg:"" required:"" name:"url" help:"URLs to flatten"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagetab"),
		kong.Description("Flatten web pages into element tables"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Wire the fetcher
	var fetcher pagetab.Fetcher
	if cli.Render {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
	} else {
		opts := []pagehttp.Option{pagehttp.WithTimeout(cli.Timeout)}
		if cli.UserAgent != "" {
			opts = append(opts, pagehttp.WithUserAgent(cli.UserAgent))
		}
		fetcher = pagehttp.NewFetcher(opts...)
	}
	fetcher = pageslog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	writer, err := newWriter(cli.Format)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,

		Fetcher: fetcher,
		Parser:  pagehtml.NewParser(),
		Writer:  pageslog.NewLoggingWriter(writer, logger),
		Limiter: fetch.NewDomainLimiter(1.0),
	}

	return runFlatten(cli, deps)
}
