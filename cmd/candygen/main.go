// Package main implements candygen, a command-line tool that generates a
// single candy with Gemini and writes its image to disk.
//
// Usage:
//
//	candygen -keywords "cosmic raspberry" [-type Gummy] [-out candy.png] [-watermark text] [-no-watermark]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/BoldMakerAI/ai-candy-generator/internal/config"
	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
	"github.com/BoldMakerAI/ai-candy-generator/internal/platform/gemini"
	"github.com/BoldMakerAI/ai-candy-generator/internal/platform/logger"
	"github.com/BoldMakerAI/ai-candy-generator/internal/retry"
	"github.com/BoldMakerAI/ai-candy-generator/internal/watermark"
)

type options struct {
	keywords    string
	candyType   string
	out         string
	watermark   string
	noWatermark bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fsFlags := flag.NewFlagSet("candygen", flag.ContinueOnError)
	fsFlags.SetOutput(stderr)
	fsFlags.StringVar(&opts.keywords, "keywords", "", "keywords describing the candy (required)")
	fsFlags.StringVar(&opts.candyType, "type", string(domain.DefaultCandyType), "candy type")
	fsFlags.StringVar(&opts.out, "out", "", "output file (defaults to a name derived from the candy)")
	fsFlags.StringVar(&opts.watermark, "watermark", watermark.DefaultText, "watermark text")
	fsFlags.BoolVar(&opts.noWatermark, "no-watermark", false, "write the image without a watermark")

	if err := fsFlags.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Logs go to stderr so stdout carries only the result.
	l, err := logger.SetupWithWriter(cfg.Server, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, err := newGenerator(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to create generator", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, opts, gen, os.Stdout); err != nil {
		l.Error("Candy generation failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, l *slog.Logger) (generation.Generator, error) {
	client, err := gemini.NewClient(ctx, l, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return generation.NewOrchestrator(client, client, l,
		retry.WithMaxAttempts(cfg.LLM.MaxRetries),
		retry.WithBaseDelay(cfg.LLM.BaseDelay()),
		retry.WithMaxJitter(cfg.LLM.MaxJitter()),
	)
}

// run generates one candy and writes its image. The path of the written file
// and the candy name are printed to stdout.
func run(ctx context.Context, opts options, gen generation.Generator, stdout io.Writer) error {
	req, err := domain.NewCandyRequest(opts.keywords, opts.candyType)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	candy, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	img, err := watermark.DecodeDataURI(candy.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if !opts.noWatermark {
		img, err = watermark.Apply(img, opts.watermark)
		if err != nil {
			return fmt.Errorf("failed to apply watermark: %w", err)
		}
	}

	out := opts.out
	if out == "" {
		out = watermark.FileName(candy.Name)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(out, img, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	_, err = fmt.Fprintf(stdout, "%s\t%s\n", candy.Name, out)
	return err
}
