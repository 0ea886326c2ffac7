package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/agrotalent/talent-hub/internal/client"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server     string
	RecallPath string
	Timeout    time.Duration
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultRecallPath is where the last submitted profile is kept between runs
func DefaultRecallPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".talentctl", "recall.db")
}

// NewRootCommand creates the root command for talentctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	defaultServer := os.Getenv("TALENT_API_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	cmd := &cobra.Command{
		Use:   "talentctl",
		Short: "Talent hub command line client",
		Long:  "Browse agribusiness jobs, register in the talent pool and apply to jobs from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", defaultServer, "talent hub API base URL (env TALENT_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.RecallPath, "recall-db", DefaultRecallPath(), "file remembering the last submitted profile (empty disables)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewJobsCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewMaskPhoneCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger writes diagnostics to stderr so JSON output stays clean
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    true,
	}))
}

func newClient(opts *RootOptions, logger *slog.Logger) (*client.Client, error) {
	return client.New(client.Config{BaseURL: opts.Server, Timeout: opts.Timeout}, nil, logger)
}
