package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonenv/internal/config"
	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/formatter"
	"github.com/mcncl/jsonenv/internal/logging"
	"github.com/mcncl/jsonenv/internal/models"
	"github.com/mcncl/jsonenv/internal/parser"
	"github.com/sirupsen/logrus"
)

// Version information
const (
	Version = "0.1.0"
)

// cli defines the command-line interface
type cli struct {
	Config  string           `help:"Path to a config file. Defaults to the nearest .jsonenv.yml." short:"c" type:"path"`
	Output  string           `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Pretty  bool             `help:"Indent the output." short:"p" xor:"layout"`
	Compact bool             `help:"Force compact output, overriding the config file." xor:"layout"`
	KeyCase string           `help:"Rewrite object keys in data: snake, camel, lower_camel or kebab."`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Success  SuccessCmd  `cmd:"" help:"Render a success envelope."`
	Response ResponseCmd `cmd:"" help:"Render a response envelope with JSON data."`
	Error    ErrorCmd    `cmd:"" help:"Render an error envelope from error details."`
}

// CLI holds the parsed command line
var CLI cli

// Context holds the runtime context shared by all commands
type Context struct {
	Debug      bool
	Config     *config.Config
	Logger     *logrus.Logger
	OutputPath string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// SuccessCmd renders {"status":"success","message":...}
type SuccessCmd struct {
	Message string `help:"Message to return." short:"m" required:""`
}

// ResponseCmd renders {"status":...,"message":...,"data":...}
type ResponseCmd struct {
	Status  string `help:"Envelope status." short:"s" default:"success"`
	Message string `help:"Message to return." short:"m" required:""`
	Input   string `help:"Path to a JSON file holding the data. If not specified, reads from stdin." short:"i" type:"path"`
}

// ErrorCmd renders {"status":"error","errors":[...]}
type ErrorCmd struct {
	Code    string   `help:"Error code, logged alongside the envelope." required:""`
	Input   string   `help:"Path to a YAML or JSON list of error details. If not specified, reads from stdin." short:"i" type:"path" xor:"source"`
	Field   string   `help:"Field of a single inline error detail." short:"f"`
	Message string   `help:"Message of a single inline error detail." short:"m" xor:"source"`
	Action  []string `help:"Next action for the inline error detail (repeatable)." short:"a"`
}

func main() {
	app := kong.Must(&CLI,
		kong.Name("jsonenv"),
		kong.Description("Render API response envelopes as JSON"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	kctx, err := app.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		app.FatalIfErrorf(err)
	}

	ctx, err := newContext(&CLI, os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = kctx.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonenv --help\n")
		os.Exit(1)
	}
}

// newContext loads configuration, applies flag overrides and builds the logger
func newContext(c *cli, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := c.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{Debug: c.Debug}
	if c.Pretty || c.Compact {
		pretty := c.Pretty
		overrides.Pretty = &pretty
	}
	if c.KeyCase != "" {
		keyCase := c.KeyCase
		overrides.KeyCase = &keyCase
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load configuration from '%s'", configPath), err)
	}

	logger := logging.New(cfg.Logging, stderr)
	if configPath != "" {
		logger.WithField("path", configPath).Debug("loaded config file")
	}

	return &Context{
		Debug:      c.Debug,
		Config:     cfg,
		Logger:     logger,
		OutputPath: c.Output,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
	}, nil
}

// Formatter returns the formatter selected by the configuration
func (ctx *Context) Formatter() formatter.Formatter {
	return formatter.WithPretty(ctx.Config.Pretty)
}

// Run renders the success envelope
func (c *SuccessCmd) Run(ctx *Context) error {
	out, err := ctx.Formatter().FormatSuccess(c.Message)
	if err != nil {
		return err
	}
	return writeOutput(ctx, out)
}

// Run reads the data, applies key renaming and renders the response envelope
func (c *ResponseCmd) Run(ctx *Context) error {
	var data models.Value
	err := withInput(ctx, c.Input, func(r io.Reader) error {
		var err error
		data, err = parser.Parse(r)
		return err
	}, func(path string) error {
		var err error
		data, err = parser.ParseFile(path)
		return err
	})
	if err != nil {
		return err
	}

	data = models.RenameKeys(data, ctx.Config.KeyFunc())

	out, err := ctx.Formatter().FormatResponse(c.Status, c.Message, data)
	if err != nil {
		return err
	}
	return writeOutput(ctx, out)
}

// Run collects the error details and renders the error envelope
func (c *ErrorCmd) Run(ctx *Context) error {
	details, err := c.details(ctx)
	if err != nil {
		return err
	}

	ctx.Logger.WithFields(logrus.Fields{
		"code":   c.Code,
		"errors": len(details),
	}).Info("rendering error envelope")

	out, err := ctx.Formatter().FormatError(c.Code, details)
	if err != nil {
		return err
	}
	return writeOutput(ctx, out)
}

// Validate rejects --field or --action without the --message they belong to
func (c *ErrorCmd) Validate() error {
	if c.Message == "" && (c.Field != "" || len(c.Action) > 0) {
		return errors.NewInputError("--field and --action describe an inline error detail and require --message", nil)
	}
	return nil
}

func (c *ErrorCmd) details(ctx *Context) ([]models.ErrorDetail, error) {
	if c.Message != "" {
		return []models.ErrorDetail{models.NewErrorDetail(c.Field, c.Message, c.Action...)}, nil
	}

	var details []models.ErrorDetail
	err := withInput(ctx, c.Input, func(r io.Reader) error {
		var err error
		details, err = parser.ParseErrorDetails(r)
		return err
	}, func(path string) error {
		var err error
		details, err = parser.ParseErrorDetailsFile(path)
		return err
	})
	return details, err
}

// withInput reads from the file at path, or from stdin when path is empty
func withInput(ctx *Context, path string, fromReader func(io.Reader) error, fromFile func(string) error) error {
	if path != "" {
		return fromFile(path)
	}

	if ctx.Stdin == nil {
		return errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	if f, ok := ctx.Stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return errors.NewInputError("failed to access stdin", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			// Terminal is interactive (not piped)
			return errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}
	return fromReader(ctx.Stdin)
}

// writeOutput writes the envelope to file or stdout
func writeOutput(ctx *Context, out string) error {
	if ctx.OutputPath != "" {
		err := os.WriteFile(ctx.OutputPath, []byte(out+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", ctx.OutputPath), err)
		}
		ctx.Logger.WithField("path", ctx.OutputPath).Debug("envelope written")
		return nil
	}

	if _, err := fmt.Fprintln(ctx.Stdout, out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
