package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"print-exporter/feature/export"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <record-id> [record-id...]",
	Short: "Export records as print-ready meshes",
	Long:  `Runs the export pipeline for one or more records and prints where each mesh was written. Several ids run as a batch with bounded concurrency.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		orientation, _ := cmd.Flags().GetString("orientation")

		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := rt.withPipeline(); err != nil {
			return err
		}
		svc, err := rt.exportService()
		if err != nil {
			return err
		}

		opts := export.Options{Orientation: orientation}
		var results []*export.Result
		if len(args) == 1 {
			res, _ := svc.ExportItem(cmd.Context(), args[0], opts)
			results = []*export.Result{res}
		} else {
			results, err = svc.ExportBatch(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return fmt.Errorf("failed to encode results: %w", err)
			}
		} else {
			printResults(termenv.NewOutput(os.Stdout), results)
		}

		failed := 0
		for _, r := range results {
			if r.Status != export.StatusOK {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d exports failed", failed, len(results))
		}
		return nil
	},
}

func printResults(out *termenv.Output, results []*export.Result) {
	okStyle := out.String("OK  ").Foreground(out.Color("2")).Bold()
	failStyle := out.String("FAIL").Foreground(out.Color("1")).Bold()

	for _, r := range results {
		if r.Status == export.StatusOK {
			fmt.Fprintf(out, "%s %s %s\n", okStyle, r.RecordID, r.MergedMeshPath)
			d := r.Diagnostics
			fmt.Fprintf(out, "     %d vertices, %d faces, %d parts attached, %d skipped, %dms\n",
				d.Vertices, d.Faces, d.Assembly.Attached, d.Assembly.SkippedTotal(), d.DurationMS)
			if r.PreviewPath != "" {
				fmt.Fprintf(out, "     preview %s\n", out.String(r.PreviewPath).Faint())
			}
			continue
		}
		fmt.Fprintf(out, "%s %s %s: %s\n", failStyle, r.RecordID, r.ErrorKind, r.ErrorMessage)
	}
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("orientation", "", "Orientation preset (assembled, direct); defaults to the configured one")
	exportCmd.Flags().Bool("json", false, "Print the full results as JSON")
}
