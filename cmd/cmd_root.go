// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/radiakml/radiakml/convert"
	"github.com/radiakml/radiakml/kml"
	"github.com/radiakml/radiakml/survey"
	"github.com/spf13/cobra"
)

const envFile = ".env"

// errReported marks failures whose message was already printed for the user.
var errReported = errors.New("reported")

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

// flag name -> environment variable supplying its value when not set on the
// command line.
var envFlags = []struct {
	flag string
	env  string
}{
	{"min", "RADIAKML_MIN"},
	{"max", "RADIAKML_MAX"},
	{"cmap", "RADIAKML_CMAP"},
	{"alpha", "RADIAKML_ALPHA"},
}

var (
	surveyOptions = survey.DefaultOptions()
	outputPath    string
)

var rootCmd = &cobra.Command{
	Use:   "radiakml INPUT",
	Short: "color-coded Google Earth maps from RadiaCode tracks",
	Long: `
radiakml reads a KML or KMZ track exported by a RadiaCode dosimeter and writes
a KML document where every point is colored by its dose rate.

Without --output the result is written next to the input as
<name>_processed.kml. Defaults for --min, --max, --cmap and --alpha may be set
with RADIAKML_MIN, RADIAKML_MAX, RADIAKML_CMAP and RADIAKML_ALPHA, in the
environment or in a .env file in the working directory.
`,
	Args:              cobra.ExactArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return applyEnv(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.OutOrStdout(), args[0], outputPath, surveyOptions)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.Float64Var(&surveyOptions.Range.Min, "min", survey.DefaultMin, "dose rate (µSv/h) mapped to the start of the gradient")
	flags.Float64Var(&surveyOptions.Range.Max, "max", survey.DefaultMax, "dose rate (µSv/h) mapped to the end of the gradient")
	flags.StringVar(&surveyOptions.Gradient, "cmap", survey.DefaultOptions().Gradient, "color gradient, see 'radiakml gradients'")
	flags.Float64Var(&surveyOptions.Alpha, "alpha", survey.DefaultAlpha, "icon opacity, between 0 and 1")
	flags.StringVarP(&outputPath, "output", "o", "", "output file (default <input>_processed.kml)")
}

// applyEnv loads .env when present and copies the RADIAKML_* variables into
// the flags of cmd the user did not set.
func applyEnv(cmd *cobra.Command) error {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", envFile, err)
	}

	for _, ef := range envFlags {
		f := cmd.Flags().Lookup(ef.flag)
		if f == nil || f.Changed {
			continue
		}

		v, ok := os.LookupEnv(ef.env)
		if !ok || v == "" {
			continue
		}

		if err := cmd.Flags().Set(ef.flag, v); err != nil {
			return survey.ConfigError(err, "invalid %s", ef.env)
		}
	}

	return nil
}

func runConvert(out io.Writer, input, output string, opts survey.Options) error {
	if _, err := os.Stat(input); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Error: File %s does not exist\n", input)

		return errReported
	}

	if !kml.IsSupported(input) {
		fmt.Fprintln(out, "Error: File must be .kml or .kmz format")

		return errReported
	}

	res, err := convert.Run(convert.Options{
		Input:    input,
		Output:   output,
		Survey:   opts,
		Progress: true,
	})
	if err != nil {
		fmt.Fprintf(out, "Error processing file: %v\n", err)

		return errReported
	}

	fmt.Fprintf(out, "Processed file saved as: %s\n", res.Output)

	return nil
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}
