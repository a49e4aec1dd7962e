package main

import (
	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/internal/importer"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		failed bool
		dest   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past file operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			filter := importer.HistoryFilter{Limit: limit}
			if failed {
				outcome := importer.HistoryFailed
				filter.Outcome = &outcome
			}
			if dest != "" {
				filter.Dest = &dest
			}

			entries, err := importer.NewHistoryStore(db).List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printf(a.out, "No history.\n")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, h := range entries {
				outcome := h.Outcome
				if h.NoOp {
					outcome += " (in place)"
				}
				detail := h.Dest
				if h.Error != "" {
					detail = h.Error
				}
				rows = append(rows, []string{
					h.CreatedAt.Local().Format("2006-01-02 15:04"), h.Action, outcome, h.Source, detail,
				})
			}
			printf(a.out, "%s\n", renderTable(
				[]string{"When", "Action", "Outcome", "Source", "Destination / Error"},
				rows, nil,
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed operations")
	cmd.Flags().StringVar(&dest, "dest", "", "Only show operations into this destination path")
	return cmd
}
