package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List supported states, districts, languages and crops",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "states",
			Short: "List supported states",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				states := catalog.States()
				rows := make([][]string, 0, len(states))
				for _, s := range states {
					rows = append(rows, []string{s, fmt.Sprint(len(catalog.Districts(s)))})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"STATE", "DISTRICTS"}, rows))
				return nil
			},
		},
		&cobra.Command{
			Use:   "districts <state>",
			Short: "List the districts of a state",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				state := strings.Join(args, " ")
				districts := catalog.Districts(state)
				if len(districts) == 0 {
					return fmt.Errorf("unknown state %q", state)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(districts, "\n"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "languages",
			Short: "List interface languages",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				langs := catalog.Languages()
				rows := make([][]string, 0, len(langs))
				for _, l := range langs {
					rows = append(rows, []string{l.Code, l.Name, l.Native})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"CODE", "NAME", "NATIVE"}, rows))
				return nil
			},
		},
		&cobra.Command{
			Use:   "crops",
			Short: "List supported crops",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				recommendable := make(map[string]bool)
				for _, c := range advisor.RecommendableCrops() {
					recommendable[c] = true
				}
				crops := catalog.SupportedCrops()
				rows := make([][]string, 0, len(crops))
				for _, c := range crops {
					mark := styles.Muted.Render("-")
					if recommendable[strings.ToLower(c)] {
						mark = "yes"
					}
					base, _ := advisor.BaseYield(c)
					rows = append(rows, []string{c, mark, num(base)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"CROP", "RECOMMENDABLE", "BASE YIELD (t/ha)"}, rows))
				return nil
			},
		},
	)
	return cmd
}
