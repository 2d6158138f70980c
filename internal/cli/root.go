// Package cli implements the farmwise command line: the HTTP server plus
// offline access to the advisor, the soil reference store and the catalog.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/farmwise-backend/internal/config"
	"github.com/tbourn/farmwise-backend/internal/repo"
)

// options are the persistent flags shared by subcommands.
type options struct {
	configPath string
}

func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg config.Config) (repo.Store, error) {
	st, err := repo.Open(repo.Options{
		Driver:  cfg.Store.Driver,
		DataDir: cfg.Store.DataDir,
		DBPath:  cfg.Store.DBPath,
		Tracing: cfg.OTEL.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return st, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "farmwise",
		Short: "FarmWise crop and yield advisory backend",
		Long: `FarmWise recommends crops from soil and climate readings, estimates
seasonal yield, and serves both over a JSON API together with soil and
weather reference data.`,
		Example: `  # Run the API server
  $ farmwise serve

  # Recommend a crop for a soil sample
  $ farmwise recommend --n 90 --p 42 --k 43 --ph 6.5 --rainfall 1200

  # Estimate yield for 2 hectares of rice in Kharif
  $ farmwise yield --crop rice --season Kharif --area 2

  # Load district soil reference data
  $ farmwise soil import soil.xlsx`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to an optional YAML config file")

	cmd.AddCommand(
		newServeCmd(opts, version),
		newRecommendCmd(),
		newYieldCmd(),
		newSoilCmd(opts),
		newCatalogCmd(),
	)

	cmd.SetVersionTemplate(fmt.Sprintf("farmwise version %s\n", version))
	cmd.SetUsageTemplate(usageTemplate())
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	cmd := NewRootCmd(version)
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), "%v", err)
		return 1
	}
	return 0
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}
