package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/logger"
	"github.com/oshokin/speaker-autogroup/internal/service/common"
	"github.com/oshokin/speaker-autogroup/internal/service/reconciler"
)

// Options controls the status command.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// BridgeAddress provides an optional speaker bridge address override.
	BridgeAddress string
	// Output receives the table; nil means stdout.
	Output io.Writer
}

// Run surveys the household once and renders the result.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "speaker-groupd-status")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	client, _, err := common.Connect(ctx, cfg, opts.BridgeAddress)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	rec := reconciler.New(client, reconciler.WithTimeouts(reconciler.Timeouts{
		Discovery:   cfg.DiscoveryTimeout,
		Lookup:      cfg.LookupTimeout,
		GroupLookup: cfg.GroupLookupTimeout,
	}))

	report, err := rec.Survey(ctx)
	if err != nil {
		return fmt.Errorf("survey: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	Render(out, report)

	return nil
}

// Render writes one row per surveyed speaker followed by a summary.
func Render(w io.Writer, report *reconciler.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Speaker", "State", "Next pass"})

	for i, entry := range report.Entries {
		t.AppendRow(table.Row{i + 1, entry.Speaker, entry.Disposition.Kind.String(), nextAction(entry, report.Candidates)})
	}

	t.AppendFooter(table.Row{"", "Discovered", report.Discovered, candidatesSummary(report.Candidates)})
	t.Render()
}

// nextAction describes the command the next pass sends for entry. Ungrouped
// speakers are grouped by commanding the first candidate to join each other one.
func nextAction(entry reconciler.Entry, candidates []string) string {
	switch entry.Disposition.Kind {
	case speaker.AlreadyGrouped:
		return "none"
	case speaker.JoinCoordinator:
		return "join " + entry.Disposition.Coordinator
	case speaker.NoGroupAvailable:
		switch {
		case len(candidates) < 2:
			return "none, alone"
		case candidates[0] == entry.Speaker:
			return "join " + strings.Join(candidates[1:], ", then ")
		default:
			return "receive join from " + candidates[0]
		}
	}

	return ""
}

func candidatesSummary(candidates []string) string {
	if len(candidates) == 0 {
		return "no ungrouped speakers"
	}

	return "ungrouped: " + strings.Join(candidates, ", ")
}
