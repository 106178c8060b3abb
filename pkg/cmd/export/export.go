package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/marginalia-app/marginalia/internal/backup"
	"github.com/marginalia-app/marginalia/internal/state"
)

func NewCmdExport(s *state.State) *cobra.Command {
	var (
		out    string
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all notes as a single JSON bundle.",
		Long: heredoc.Doc(`
			Walks the notes directory and collects every readable document
			into a bundle. Unreadable folders are reported but do not abort
			the export.

			Examples:
			  marginalia export --out notes-backup.json
			  marginalia export --upload
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, result, err := s.Store.ExportAll()
			if err != nil {
				return err
			}

			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "Skipped %s: %v\n", e.Folder, e.Err)
			}

			data, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return err
			}

			if upload {
				uploader, err := backup.NewUploader(cmd.Context(), s.Config.Backup)
				if err != nil {
					return err
				}
				key, err := uploader.Upload(cmd.Context(), bytes.NewReader(data), time.Now())
				if err != nil {
					return err
				}
				fmt.Printf("Uploaded %d papers to s3://%s/%s (%d skipped).\n",
					result.Succeeded, s.Config.Backup.Bucket, key, result.Failed)
				return nil
			}

			if out == "" {
				out = fmt.Sprintf("notes-export-%s.json", time.Now().Format("2006-01-02"))
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}

			fmt.Printf("Exported %d papers to %s (%d skipped).\n", result.Succeeded, out, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path")
	cmd.Flags().BoolVarP(&upload, "upload", "u", false, "Upload the bundle to the configured S3 bucket")

	return cmd
}
