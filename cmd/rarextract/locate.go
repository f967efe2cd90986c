package main

import (
	"fmt"

	"github.com/Defacto2/rarextract"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// NewLocateCmd creates the locate command.
func NewLocateCmd() *cobra.Command {
	return newLocateCmd(nil)
}

// newLocateCmd uses the locator func to replace the default locator in tests.
func newLocateCmd(locator func() rarextract.Locator) *cobra.Command {
	if locator == nil {
		locator = rarextract.NewLocator
	}
	return &cobra.Command{
		Use:   "locate",
		Short: "Show where the unrar program is searched for",
		Long: `List every location checked for the unrar program, in search order,
and the program that extract would use.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, _, err := newLogger(cmd)
			if err != nil {
				return err
			}
			l := locator()
			l.Logger = logger
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderCandidates(l.Candidates()))
			path, err := l.Locate()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Using %s\n", path)
			return nil
		},
	}
}

// renderCandidates returns the candidates as a table.
func renderCandidates(cs []rarextract.Candidate) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "Search", "Path", "Exists", "Executable"})
	for i, c := range cs {
		path := c.Path
		if path == "" {
			path = "(not found)"
		}
		tw.AppendRow(table.Row{i + 1, c.Tier.String(), path, yesNo(c.Exists), yesNo(c.Executable)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
