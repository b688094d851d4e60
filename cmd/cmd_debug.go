// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/radiakml/radiakml/survey"
	"github.com/spf13/cobra"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDescriptionCmd = &cobra.Command{
	Use:   "description [file]",
	Short: "Parse placemark descriptions and print the readings as JSON",
	Long: `Reads one placemark description per line, from a file or from stdin, and
prints the description followed by the reading extracted from it.

$ echo '<b>2024-01-01 12:00:00</b></br>0.15 µSv/h</br>25.3 cps</br>Accuracy: ±5 m</br>' | radiakml debug description
<b>2024-01-01 12:00:00</b></br>0.15 µSv/h</br>25.3 cps</br>Accuracy: ±5 m</br>		{"timestamp":"2024-01-01 12:00:00","dose_rate":0.15,"count_rate":25.3,"accuracy":5}
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := os.Stdin
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			input = f
		} else if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Enter descriptions to parse, one per line…")
		}

		return debugDescriptions(cmd.OutOrStdout(), input)
	},
}

func debugDescriptions(w io.Writer, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		reading := survey.ParseDescription(line)
		if reading == nil {
			fmt.Fprintf(w, "%s\t%q\n", line, survey.ErrMissingReading.Error())

			continue
		}

		s, err := json.Marshal(reading)
		if err != nil {
			return fmt.Errorf("marshalling reading: %w", err)
		}

		fmt.Fprintf(w, "%s\t\t%s\n", line, s)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDescriptionCmd)
}
