package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/farmwise-backend/internal/advisor"
	"github.com/tbourn/farmwise-backend/internal/services"
)

func newRecommendCmd() *cobra.Command {
	s := services.DefaultSoil
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend a crop for a soil and climate sample",
		Long: `Score the sample against every crop rule and print the best match, the
top alternatives and advisory notes. Unset factors take the regional
defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec := advisor.Recommend(s)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			printRecommendation(cmd.OutOrStdout(), s, rec)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&s.N, "n", s.N, "nitrogen (kg/ha)")
	f.Float64Var(&s.P, "p", s.P, "phosphorus (kg/ha)")
	f.Float64Var(&s.K, "k", s.K, "potassium (kg/ha)")
	f.Float64Var(&s.PH, "ph", s.PH, "soil pH")
	f.Float64Var(&s.Temperature, "temperature", s.Temperature, "temperature (°C)")
	f.Float64Var(&s.Humidity, "humidity", s.Humidity, "relative humidity (%)")
	f.Float64Var(&s.Rainfall, "rainfall", s.Rainfall, "rainfall (mm)")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	return cmd
}

func printRecommendation(w io.Writer, s advisor.SoilSample, rec advisor.Recommendation) {
	fmt.Fprintln(w, renderBox(
		"Recommended crop: "+rec.PredictedCrop,
		"Confidence "+pct(rec.ConfidencePercentage),
	))

	rows := make([][]string, 0, len(rec.Alternatives))
	for i, a := range rec.Alternatives {
		rows = append(rows, []string{fmt.Sprint(i + 1), a.Crop, pct(a.ConfidencePercentage)})
	}
	fmt.Fprintln(w, renderTable([]string{"#", "CROP", "CONFIDENCE"}, rows))

	fmt.Fprintln(w, renderTable([]string{"FACTOR", "VALUE"}, sampleRows(s)))

	for _, a := range rec.Advisory {
		fmt.Fprintf(w, "%s %s\n", styles.Bold.Render(a.Title+":"), a.Description)
	}
}

func sampleRows(s advisor.SoilSample) [][]string {
	return [][]string{
		{"N", num(s.N)},
		{"P", num(s.P)},
		{"K", num(s.K)},
		{"pH", num(s.PH)},
		{"Temperature", num(s.Temperature)},
		{"Humidity", num(s.Humidity)},
		{"Rainfall", num(s.Rainfall)},
	}
}

func newYieldCmd() *cobra.Command {
	var (
		in     advisor.YieldInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "yield",
		Short: "Estimate production for a crop, season and area",
		Long: `Estimate production as base yield per hectare for the crop, times the
season multiplier, times the area. The season must be Kharif, Rabi or
Summer. An unknown crop uses the default base yield and is flagged on
stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Crop = strings.TrimSpace(in.Crop)
			if in.Crop == "" {
				return errors.New("--crop is required")
			}
			if in.Area <= 0 {
				return errors.New("--area must be > 0")
			}
			if !slices.Contains(advisor.Seasons(), in.Season) {
				return fmt.Errorf("--season must be one of %s", strings.Join(advisor.Seasons(), ", "))
			}

			est := advisor.EstimateYield(in)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, est)
			}
			if _, ok := advisor.BaseYield(in.Crop); !ok {
				printWarning(cmd.ErrOrStderr(), "no base yield for %q, using the default", in.Crop)
			}
			fmt.Fprintln(out, renderTable([]string{"CROP", "SEASON", "AREA (ha)", "YIELD (t/ha)", "PRODUCTION (t)"}, [][]string{{
				est.Crop, est.Season, num(est.Area), num(est.PredictedYield), num(est.PredictedProduction),
			}}))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Crop, "crop", "", "crop name, e.g. rice")
	f.StringVar(&in.Season, "season", "Kharif", "Kharif, Rabi or Summer")
	f.Float64Var(&in.Area, "area", 0, "area in hectares")
	f.IntVar(&in.Year, "year", 0, "crop year (informational)")
	f.StringVar(&in.District, "district", "", "district (informational)")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
