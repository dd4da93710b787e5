package cmd

import (
	"fmt"
	"io"
	"os"

	"print-exporter/core/records"
	"print-exporter/feature/catalog"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// catalogCmd groups the record catalog commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage and browse the record catalog",
}

// catalogImportCmd represents the catalog import command
var catalogImportCmd = &cobra.Command{
	Use:   "import <dump.jsonl|->",
	Short: "Import a JSON-lines record dump",
	Long:  `Creates the catalog tables when needed and upserts every record of the extractor dump, replacing the geometry lists of known records.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		var in io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open dump: %w", err)
			}
			defer f.Close()
			in = f
		}

		if err := rt.store.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate catalog: %w", err)
		}
		n, err := rt.store.Import(cmd.Context(), in)
		if err != nil {
			rt.logger.Error("Import stopped", zap.Int("imported", n), zap.Error(err))
			return err
		}
		rt.logger.Info("Catalog imported", zap.Int("records", n))
		return nil
	},
}

// catalogSearchCmd represents the catalog search command
var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search exportable records by name or path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := catalogService()
		if err != nil {
			return err
		}
		found, err := svc.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSummaries(termenv.NewOutput(os.Stdout), found)
		return nil
	},
}

// catalogListCmd represents the catalog list command
var catalogListCmd = &cobra.Command{
	Use:   "list <path-prefix>",
	Short: "List base records under a record path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := catalogService()
		if err != nil {
			return err
		}
		found, err := svc.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSummaries(termenv.NewOutput(os.Stdout), found)
		return nil
	},
}

func catalogService() (*catalog.Service, error) {
	rt, err := newRuntime(false)
	if err != nil {
		return nil, err
	}
	return catalog.NewService(rt.cfg.Catalog, rt.store, rt.logger), nil
}

func printSummaries(out *termenv.Output, found []records.Summary) {
	for _, s := range found {
		fmt.Fprintf(out, "%s  %s  %s\n", out.String(s.ID).Faint(), out.String(s.Name).Bold(), s.Type)
	}
	fmt.Fprintf(out, "%d records\n", len(found))
}

func init() {
	RootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd, catalogSearchCmd, catalogListCmd)
}
