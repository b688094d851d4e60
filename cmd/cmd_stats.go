// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/radiakml/radiakml/kml"
	"github.com/radiakml/radiakml/survey"
	"github.com/spf13/cobra"
)

var (
	statsOptions = survey.SummaryOptions{Resolution: 8, Top: 10}
	statsJSON    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats INPUT",
	Short: "Summarize the dose rates of a track",
	Long: `Reads a KML or KMZ track and prints dose rate statistics, the track length
and the H3 cells with the highest mean dose rate. Nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := kml.ReadFile(args[0])
		if err != nil {
			return err
		}

		records, err := src.Placemarks()
		if err != nil {
			return err
		}

		summary, err := survey.Summarize(records, statsOptions)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(summary)
		}

		printSummary(cmd.OutOrStdout(), summary)

		return nil
	},
}

func printSummary(w io.Writer, s *survey.Summary) {
	fmt.Fprintf(w, "Points:        %s (%s without reading)\n", formatInt(int64(s.Points)), formatInt(int64(s.Unparsed())))
	fmt.Fprintf(w, "Track length:  %.2f km\n", s.TrackLength/1000)

	if s.Parsed == 0 {
		return
	}

	fmt.Fprintf(w, "Dose rate:     min %.3f  mean %.3f  max %.3f µSv/h\n", s.DoseMin, s.DoseMean, s.DoseMax)
	fmt.Fprintf(w, "               median %.3f  p95 %.3f  stddev %.3f\n", s.DoseMedian, s.DoseP95, s.DoseStdDev)
	fmt.Fprintf(w, "Count rate:    mean %.1f cps\n", s.CountRateMean)

	if len(s.HotSpots) == 0 {
		return
	}

	a, b, c, d := strings.Repeat("─", 15), strings.Repeat("─", 7), strings.Repeat("─", 10), strings.Repeat("─", 10)
	fmt.Fprintln(w, "Hot spots:")
	fmt.Fprintf(w, "╭─%-15s─┬─%7s─┬─%10s─┬─%10s─╮\n", a, b, c, d)
	fmt.Fprintf(w, "│ %-15s │ %7s │ %10s │ %10s │\n", "Cell", "Points", "Mean", "Max")
	fmt.Fprintf(w, "├─%-15s─┼─%7s─┼─%10s─┼─%10s─┤\n", a, b, c, d)

	for _, h := range s.HotSpots {
		fmt.Fprintf(w, "│ %-15s │ %7s │ %10.3f │ %10.3f │\n", h.Cell, formatInt(int64(h.Points)), h.MeanDose, h.MaxDose)
	}

	fmt.Fprintf(w, "╰─%-15s─┴─%7s─┴─%10s─┴─%10s─╯\n", a, b, c, d)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsOptions.Resolution, "h3-res", statsOptions.Resolution, "H3 resolution used to group hot spots (0-15)")
	statsCmd.Flags().IntVar(&statsOptions.Top, "top", statsOptions.Top, "number of hot spots shown, 0 for all")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the summary as JSON")
}
