package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pomodoro/internal/config"
)

// Output formats of the config command.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved settings",
		Long: `Print the settings the timer would run with after applying defaults,
the environment (including .env) and flags.`,
		Example: `  pomodoro config
  pomodoro config -o yaml
  SOUND_FILE_LOCATION=beep.mp3 pomodoro config --minute 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSettings(cmd.OutOrStdout(), GetConfig(cmd.Context()), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputTable, "Output format (table|yaml)")

	return cmd
}

type setting struct {
	Key   string
	Value string
}

func settingsOf(cfg *config.Config) []setting {
	return []setting{
		{"sound_file", cfg.SoundFile},
		{"alert_hold", cfg.AlertHold.String()},
		{"tick_interval", cfg.TickInterval.String()},
		{"bar_width", strconv.Itoa(cfg.BarWidth)},
		{"minute", cfg.Minute.String()},
		{"no_color", strconv.FormatBool(cfg.NoColor)},
		{"verbose", strconv.FormatBool(cfg.Verbose)},
		{"log_level", cfg.LogLevel},
		{"allow_multiple", strconv.FormatBool(cfg.AllowMultiple)},
		{"work", presetString(cfg.Work)},
		{"break", presetString(cfg.Break)},
		{"iterations", presetString(cfg.Iterations)},
	}
}

func presetString(value *uint32) string {
	if value == nil {
		return "ask"
	}
	return strconv.FormatUint(uint64(*value), 10)
}

func writeSettings(w io.Writer, cfg *config.Config, output string) error {
	settings := settingsOf(cfg)

	switch output {
	case OutputTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Setting", "Value"})
		for _, s := range settings {
			t.AppendRow(table.Row{s.Key, s.Value})
		}
		t.Render()
		return nil
	case OutputYAML:
		doc := &yaml.Node{Kind: yaml.MappingNode}
		for _, s := range settings {
			doc.Content = append(doc.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: s.Key},
				&yaml.Node{Kind: yaml.ScalarNode, Value: s.Value},
			)
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", output, OutputTable, OutputYAML)
	}
}
