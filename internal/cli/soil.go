package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/farmwise-backend/internal/services"
	"github.com/tbourn/farmwise-backend/internal/soilimport"
)

func newSoilCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soil",
		Short: "Manage district soil reference data",
	}
	cmd.AddCommand(newSoilImportCmd(opts), newSoilShowCmd(opts))
	return cmd
}

func newSoilImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Upsert soil reference rows from a spreadsheet",
		Long: `Read a soil table with a header row naming district, N, P, K, ph,
temperature, humidity and rainfall (aliases such as nitrogen or temp are
accepted) and upsert one reference reading per district into the
configured store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := soilimport.Load(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if len(rows) == 0 {
				printWarning(cmd.ErrOrStderr(), "%s has no soil rows", args[0])
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := services.NewSoilService(st).Import(cmd.Context(), rows)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "imported %d districts into the %s store", n, cfg.Store.Driver)
			return nil
		},
	}
}

func newSoilShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <district>",
		Short: "Print the soil reference reading for a district",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			s, found, err := services.NewSoilService(st).ForDistrict(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("lookup %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if !found {
				printInfo(out, "no reference data for %q, showing regional defaults", args[0])
			}
			fmt.Fprintln(out, renderTable([]string{"FACTOR", "VALUE"}, sampleRows(s)))
			return nil
		},
	}
}
