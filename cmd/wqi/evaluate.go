package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Capstone-E1/aquasmart_wqi/config"
	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/services"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// Exit codes
const (
	exitFailure            = 1
	exitInvalidMeasurement = 2
)

type evaluateFlags struct {
	variant  string
	file     string
	set      []string
	defaults bool
	json     bool
}

func newEvaluateCmd() *cobra.Command {
	f := &evaluateFlags{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one measurement set",
		Long: "Evaluate a measurement set read from a YAML/JSON file and/or --set key=value flags.\n" +
			"Flags override file values.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.variant, "variant", config.Load().Scoring.DefaultVariant, "Scoring variant: wpi or wqi")
	flags.StringVarP(&f.file, "file", "f", "", "Measurement file (YAML or JSON)")
	flags.StringArrayVar(&f.set, "set", nil, "Parameter value as key=value (may be repeated)")
	flags.BoolVar(&f.defaults, "defaults", false, "Fill parameters not given with the variant's default inputs")
	flags.BoolVar(&f.json, "json", false, "Print the evaluation as JSON")

	return cmd
}

func runEvaluate(w io.Writer, f *evaluateFlags) error {
	engine, err := wqi.DefaultEngine()
	if err != nil {
		return exitError(exitFailure, "scoring engine: %v", err)
	}

	scorer, err := engine.Scorer(wqi.Variant(strings.ToLower(f.variant)))
	if err != nil {
		return exitError(exitFailure, "%v (available: %s)", err, joinVariants(engine.Variants()))
	}

	req, err := loadRequest(f, scorer.Spec())
	if err != nil {
		return err
	}

	res, err := scorer.Evaluate(req.Values)
	if err != nil {
		if errors.Is(err, wqi.ErrInvalidMeasurement) {
			return exitError(exitInvalidMeasurement, "%v", err)
		}
		return exitError(exitFailure, "%v", err)
	}

	eval := models.NewEvaluation(scorer.Spec(), res, models.SourceCLI, req.DeviceID)

	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(eval)
	}
	return writeEvaluation(w, eval)
}

// loadRequest merges defaults, file values and --set flags, later sources winning
func loadRequest(f *evaluateFlags, spec wqi.VariantSpec) (*models.EvaluationRequest, error) {
	parser := services.NewMeasurementParser()
	req := &models.EvaluationRequest{Values: wqi.MeasurementSet{}}

	if f.defaults {
		for k, v := range models.DefaultMeasurements(spec) {
			req.Values[k] = v
		}
	}

	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, exitError(exitFailure, "failed to read %s: %v", f.file, err)
		}
		fileReq, err := parser.ParseYAML(data)
		if err != nil {
			return nil, exitError(exitInvalidMeasurement, "%s: %v", f.file, err)
		}
		req.DeviceID = fileReq.DeviceID
		for k, v := range fileReq.Values {
			req.Values[k] = v
		}
	}

	for _, s := range f.set {
		key, value, err := services.ParseAssignment(s)
		if err != nil {
			return nil, exitError(exitInvalidMeasurement, "--set: %v", err)
		}
		if key == "device_id" {
			req.DeviceID = value
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, exitError(exitInvalidMeasurement, "--set %s: invalid number %q", key, value)
		}
		req.Values[key] = v
	}

	return req, nil
}

func writeEvaluation(w io.Writer, eval *models.Evaluation) error {
	fmt.Fprintf(w, "%s (%s)\n", eval.Title, eval.Variant)
	if eval.DeviceID != "" {
		fmt.Fprintf(w, "Device: %s\n", eval.DeviceID)
	}
	fmt.Fprintf(w, "Index:  %.4f\n", eval.Index)
	fmt.Fprintf(w, "Status: %s (level %d)\n\n", eval.Status, eval.Level)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tVALUE\tUNIT\tSCORE\tWEIGHT\tCONTRIBUTION")
	for _, p := range eval.Parameters {
		weight := "-"
		if p.Weight != 0 {
			weight = strconv.FormatFloat(p.Weight, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%g\t%s\t%.4f\t%s\t%.4f\n", p.Key, p.Value, p.Unit, p.Score, weight, p.Contribution)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, warning := range eval.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func joinVariants(vs []wqi.Variant) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
