package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/widgetkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	color       string
	errorFormat string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and reports a failure on stderr in the
// selected error format. It returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{}
	cmd := rootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		// Flag parse errors skip PersistentPreRunE.
		if cerr := applyColor(opts.color); cerr != nil {
			errors.DisableColors()
		}
		errors.Write(stderr, err, opts.errorFormat)
		return 1
	}
	return 0
}

func rootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgetd",
		Short: "Frame scheduler and widget lifecycle runtime",
		Long: `widgetd runs widget components on a frame-aligned read/write scheduler.

It drives a simulated page holding an accordion and a scrollspy and
exposes what the scheduler does:

  • Batched read and write stages per frame
  • Coalesced component updates and computed watches
  • Prometheus metrics and OpenTelemetry spans
  • A live frame stream over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyColor(opts.color); err != nil {
				return err
			}
			switch opts.errorFormat {
			case errors.StylePretty, errors.StyleCompact, errors.StyleJSON:
				return nil
			}
			return errors.New("W201").
				WithOp("--error-format").
				WithDetail(fmt.Sprintf("unknown error format %q", opts.errorFormat)).
				WithSuggestion("Use pretty, compact or json")
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file or directory (default: built-in defaults)")
	flags.StringVar(&opts.color, "color", "auto", "Colorize error output: auto, always or never")
	flags.StringVar(&opts.errorFormat, "error-format", errors.StylePretty, "Error output: pretty, compact or json")

	cmd.AddCommand(
		runCmd(&opts.configPath),
		framesCmd(&opts.configPath),
		configCmd(&opts.configPath),
		explainCmd(),
		versionCmd(),
	)
	return cmd
}

// applyColor sets the error color mode. In auto mode colors are off when
// NO_COLOR is set or stderr is not a terminal.
func applyColor(mode string) error {
	switch mode {
	case "always":
		errors.EnableColors()
	case "never":
		errors.DisableColors()
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr) {
			errors.DisableColors()
		} else {
			errors.EnableColors()
		}
	default:
		return errors.Newf(errors.CategoryCLI, "unknown color mode %q", mode).
			WithOp("--color").
			WithSuggestion("Use auto, always or never")
	}
	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
