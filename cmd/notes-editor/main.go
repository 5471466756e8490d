// Command notes-editor is an interactive terminal editor for markdown notes.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"example.com/markdown-notes/internal/cli"
	"example.com/markdown-notes/internal/config"
	"example.com/markdown-notes/internal/editor"
	"example.com/markdown-notes/internal/logging"
)

var (
	flagWidth     int
	flagStyle     string
	flagNoSamples bool
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "notes-editor",
	Short: "Edit markdown notes in the terminal",
	Long: `notes-editor keeps a working set of markdown notes in memory and lets
you create, tag, search, preview and delete them in a terminal UI.

Notes live only for the session; use export to write them to disk.

Example:
  notes-editor
  notes-editor --no-samples --width 100`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEditor,
}

func init() {
	rootCmd.Flags().IntVar(&flagWidth, "width", 80, "wrap width for preview mode")
	rootCmd.Flags().StringVar(&flagStyle, "style", "notty", "glamour style for preview mode (notty, dark, light, ascii)")
	rootCmd.Flags().BoolVar(&flagNoSamples, "no-samples", false, "start with an empty note list")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "warn", "log level for messages on stderr (or the configured log file)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEditor(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load(os.Getenv("NOTES_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Log.Level = flagLogLevel
	logger := logging.NewWithWriter(cfg.Log, "notes-editor", cmd.ErrOrStderr())

	var opts []editor.Option
	if !flagNoSamples {
		samples, err := editor.SampleNotes(time.Now())
		if err != nil {
			return err
		}
		opts = append(opts, editor.WithNotes(samples...))
	}
	ed := editor.New(opts...)

	renderer, err := editor.NewRenderer(flagWidth, flagStyle)
	if err != nil {
		return err
	}

	m := cli.NewModel(ed, cli.WithRenderer(renderer), cli.WithLogger(logger))
	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
