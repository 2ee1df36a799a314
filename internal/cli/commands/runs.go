package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/japaniel/vocabbuilder/pkg/db"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "Show builds recorded in a cache database",
		Example: `  vocabbuilder runs --cache vocab.db
  vocabbuilder runs --cache vocab.db 0b6f0c1e-2a4d-4f4e-9d53-1f1b7f1d2c3a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Cache == "" {
				return errors.New("--cache is required")
			}
			conn, err := db.Open(cfg.Cache)
			if err != nil {
				return err
			}
			defer conn.Close()

			if len(args) == 1 {
				run, err := db.GetRun(cmd.Context(), conn, args[0])
				if err != nil {
					return err
				}
				printRun(cmd.OutOrStdout(), run)
				return nil
			}

			runs, err := db.ListRuns(cmd.Context(), conn, limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().String("cache", "", "SQLite cache database")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Method", "Status", "Lemmas", "Translated", "Input"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.ID, r.StartedAt.Format(time.DateTime), r.Method, r.Status, r.Lemmas, r.Translated, r.Input})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d runs)\n", len(runs))
}

func printRun(w io.Writer, r db.Run) {
	_, _ = fmt.Fprintf(w, "ID:           %s\n", r.ID)
	_, _ = fmt.Fprintf(w, "Status:       %s\n", r.Status)
	_, _ = fmt.Fprintf(w, "Method:       %s\n", r.Method)
	_, _ = fmt.Fprintf(w, "Input:        %s\n", r.Input)
	_, _ = fmt.Fprintf(w, "Output:       %s\n", r.Output)
	_, _ = fmt.Fprintf(w, "Lemmas:       %d (%d excluded)\n", r.Lemmas, r.Excluded)
	_, _ = fmt.Fprintf(w, "Translated:   %d\n", r.Translated)
	_, _ = fmt.Fprintf(w, "Untranslated: %d\n", r.Untranslated)
	_, _ = fmt.Fprintf(w, "Started:      %s\n", r.StartedAt.Format(time.DateTime))
	if r.FinishedAt != nil {
		_, _ = fmt.Fprintf(w, "Finished:     %s\n", r.FinishedAt.Format(time.DateTime))
	}
	if r.Error != "" {
		_, _ = fmt.Fprintf(w, "Error:        %s\n", r.Error)
	}
}
