// Command verifyjson checks a JSON document against a JSON Schema and
// prints the violations in the requested language.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/oarkflow/json"

	"github.com/dmitrymomot/verify/pkg/config"
	"github.com/dmitrymomot/verify/pkg/logger"
	"github.com/dmitrymomot/verify/pkg/messages"
	"github.com/dmitrymomot/verify/pkg/schema"
	"github.com/dmitrymomot/verify/pkg/verify"
)

const usage = `verifyjson - validate a JSON document against a JSON Schema

Usage:
  verifyjson [options] <schema.json> <document.json>
  verifyjson [options] <schema.json> -     (read the document from stdin)

Exit codes:
  0  document is valid
  1  document has violations
  2  bad usage, unreadable input or a broken schema

Options:
`

// Exit codes.
const (
	exitValid      = 0
	exitViolations = 1
	exitError      = 2
)

// Config is read from the environment; flags override it.
type Config struct {
	Verify   verify.Config
	Log      logger.Config
	Lang     string `env:"VERIFY_LANG" envDefault:"en"`
	Messages string `env:"VERIFY_MESSAGES_FILE"`
	Output   string `env:"VERIFY_OUTPUT" envDefault:"text"`
}

type report struct {
	Valid      bool              `json:"valid"`
	Violations []reportViolation `json:"violations"`
}

type reportViolation struct {
	Path    string `json:"path"`
	Pointer string `json:"pointer"`
	Rule    string `json:"rule"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(stderr, "verifyjson: %v\n", err)
		return exitError
	}

	fs := flag.NewFlagSet("verifyjson", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "language of the messages")
	fs.StringVar(&cfg.Messages, "messages", cfg.Messages, "YAML or JSON message catalog replacing the built-in one")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output format: text, json")
	fs.IntVar(&cfg.Verify.MaxDepth, "max-depth", cfg.Verify.MaxDepth, "maximum nesting depth")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitValid
		}
		return exitError
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitError
	}

	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithOutput(stderr),
		logger.WithAttr(logger.Component("verifyjson")),
	)

	code, err := check(ctx, log, cfg, fs.Arg(0), fs.Arg(1), stdin, stdout)
	if err != nil {
		log.ErrorContext(ctx, "check failed", logger.Error(err))
		fmt.Fprintf(stderr, "verifyjson: %v\n", err)
		return exitError
	}
	return code
}

func check(ctx context.Context, log *slog.Logger, cfg Config, schemaFile, documentFile string, stdin io.Reader, stdout io.Writer) (int, error) {
	catalog, err := loadCatalog(ctx, log, cfg.Messages)
	if err != nil {
		return exitError, err
	}

	schemaData, err := os.ReadFile(schemaFile)
	if err != nil {
		return exitError, fmt.Errorf("read schema: %w", err)
	}
	registry := verify.NewRegistry(verify.WithConfig(cfg.Verify), verify.WithLogger(log))
	compiled, err := schema.New(schema.WithRegistry(registry), schema.WithLogger(log)).Compile(schemaData)
	if err != nil {
		return exitError, err
	}
	log.DebugContext(ctx, "schema compiled",
		logger.File(schemaFile),
		slog.Int("validated", len(compiled.Validated())),
		slog.Int("passed_through", len(compiled.PassedThrough())),
	)

	var document []byte
	if documentFile == "-" {
		document, err = io.ReadAll(stdin)
	} else {
		document, err = os.ReadFile(documentFile)
	}
	if err != nil {
		return exitError, fmt.Errorf("read document: %w", err)
	}

	started := time.Now()
	out, err := compiled.CheckJSON(document)
	if err != nil {
		return exitError, err
	}
	log.DebugContext(ctx, "document checked",
		logger.File(documentFile),
		logger.Lang(cfg.Lang),
		logger.Violations(out.Len()),
		logger.Duration(time.Since(started)),
	)

	if err := render(stdout, cfg.Output, cfg.Lang, catalog, out.Violations()); err != nil {
		return exitError, err
	}
	if !out.IsValid() {
		return exitViolations, nil
	}
	return exitValid, nil
}

func loadCatalog(ctx context.Context, log *slog.Logger, file string) (*messages.Catalog, error) {
	opts := []messages.Option{messages.WithLogger(log)}
	if file == "" {
		return messages.Default(ctx, opts...)
	}
	log.DebugContext(ctx, "loading message catalog", logger.File(file))
	return messages.NewCatalog(ctx, messages.FileSource{Path: file}, opts...)
}

func render(w io.Writer, format, lang string, catalog *messages.Catalog, vs verify.Violations) error {
	switch strings.ToLower(format) {
	case "json":
		rep := report{Valid: len(vs) == 0, Violations: make([]reportViolation, 0, len(vs))}
		for _, v := range catalog.Localize(lang, vs) {
			rep.Violations = append(rep.Violations, reportViolation{
				Path:    v.Path.String(),
				Pointer: v.Path.Pointer(),
				Rule:    string(v.Rule),
				Code:    v.Code,
				Message: v.Message,
			})
		}
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text", "":
		if len(vs) == 0 {
			_, err := fmt.Fprintln(w, "valid")
			return err
		}
		for _, line := range catalog.Lines(lang, vs) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}
