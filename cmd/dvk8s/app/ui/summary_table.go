// Package ui renders human readable tables for the dvk8s CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stacklok/dvk8s/pkg/loader"
)

// RenderSummaryTable renders one row per inspected entry.
func RenderSummaryTable(w io.Writer, summaries []loader.Summary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No secrets found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Options(
		tablewriter.WithHeader([]string{"Name", "Type", "Namespace", "Keys"}),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
	)

	for _, s := range summaries {
		secretType := string(s.Type)
		keys := strings.Join(s.Keys, ", ")
		if s.SkipReason != "" {
			secretType = "skipped"
			keys = s.SkipReason
		}
		if err := table.Append([]string{
			s.Title,
			secretType,
			s.Namespace,
			keys,
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
