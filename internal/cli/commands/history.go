package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	v1 "github.com/lsalehar/aero-data-fe/api/v1"
	"github.com/lsalehar/aero-data-fe/pkg/pprint"
)

// NewHistoryCmd lists past releases from the journal.
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past releases recorded in the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			recs, err := rt.Journal.ListReleases(limit)
			if err != nil {
				return err
			}

			if rt.Flags.JSONOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}

			if len(recs) == 0 {
				pprint.Info("no releases recorded yet")
				return nil
			}

			table := pprint.NewTable("ID", "WHEN", "TAG", "VERSION", "RESULT", "DETAIL")
			for _, rec := range recs {
				table.AddRow(
					rec.ID,
					rec.StartedAt.Local().Format("2006-01-02 15:04"),
					rec.Tag,
					versionTransition(rec),
					string(rec.Result),
					recordDetail(rec),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of releases to show")
	return cmd
}

func versionTransition(rec v1.ReleaseRecord) string {
	if rec.DeployOnly {
		return "(deploy only)"
	}
	if rec.OldVersion == "" && rec.NewVersion == "" {
		return "-"
	}
	return rec.OldVersion + " → " + rec.NewVersion
}

func recordDetail(rec v1.ReleaseRecord) string {
	if rec.Result == v1.ResultFailure && rec.FailureStep != "" {
		return "failed at: " + rec.FailureStep
	}
	return ""
}
