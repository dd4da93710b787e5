package cmd

import (
	"encoding/json"
	"fmt"

	"print-exporter/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that storage, catalog, converter and archive are ready",
	Long:  `Runs every integrity check and prints the combined report. Exits non-zero when a check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := integrityService()
		if err != nil {
			return err
		}

		report := svc.RunAll(cmd.Context())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Println(string(data))

		if !report.Healthy {
			return fmt.Errorf("integrity checks failed")
		}
		return nil
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix bucket folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := integrityService()
		if err != nil {
			return err
		}
		logg := svc.Logger()

		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(cmd.Context())
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}
		if len(missing) == 0 {
			logg.Info("Structure is intact.")
			return nil
		}

		logg.Warn("Missing folders detected", zap.Strings("missing", missing))
		if !fixFlag {
			logg.Info("Run with --fix to create missing folders.")
			return nil
		}
		logg.Info("Fixing missing folders...")
		if err := svc.FixStructure(cmd.Context(), missing); err != nil {
			return fmt.Errorf("failed to fix structure: %w", err)
		}
		logg.Info("Structure fixed successfully.")
		return nil
	},
}

func integrityService() (*integrity.Service, error) {
	rt, err := newRuntime(true)
	if err != nil {
		return nil, err
	}
	if err := rt.withPipeline(); err != nil {
		return nil, err
	}
	return integrity.NewService(rt.client, rt.cfg.Storage.Bucket, rt.logger, rt.db, rt.archive, rt.converter, rt.cfg.Converter.Path), nil
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}
