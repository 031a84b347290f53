package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

func newVariantsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List scoring variants with their parameters and bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVariants(cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func newReferenceCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Print the water class reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReference(cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func runVariants(w io.Writer, asJSON bool) error {
	engine, err := wqi.DefaultEngine()
	if err != nil {
		return exitError(exitFailure, "scoring engine: %v", err)
	}

	var infos []models.VariantInfo
	for _, v := range engine.Variants() {
		scorer, err := engine.Scorer(v)
		if err != nil {
			return err
		}
		infos = append(infos, models.NewVariantInfo(scorer.Spec()))
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s - %s (%s, scores %g..%g)\n", info.Variant, info.Title, info.Aggregation, info.ScoreMin, info.ScoreMax)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  PARAMETER\tUNIT\tWEIGHT\tRULE\tDEFAULT")
		for _, p := range info.Parameters {
			fmt.Fprintf(tw, "  %s\t%s\t%g\t%s\t%g\n", p.Key, p.Unit, p.Weight, formatRule(p.Rule), p.InputDefault)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		bands := make([]string, len(info.Bands))
		for j, b := range info.Bands {
			bands[j] = fmt.Sprintf("%s >= %g", b.Label, b.Lower)
		}
		fmt.Fprintf(w, "  bands: %s\n", strings.Join(bands, "; "))
	}
	return nil
}

func formatRule(r models.RuleInfo) string {
	keys := map[string][]string{
		"range":     {"low", "high"},
		"deviation": {"center", "span"},
		"inverse":   {"divisor"},
		"ideal":     {"ideal", "max_deviation"},
	}
	var parts []string
	for _, k := range keys[r.Type] {
		parts = append(parts, fmt.Sprintf("%s=%g", k, r.Params[k]))
	}
	return r.Type + "(" + strings.Join(parts, ",") + ")"
}

func runReference(w io.Writer, asJSON bool) error {
	ref := models.WaterClassReference()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ref)
	}

	fmt.Fprintln(w, ref.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PARAMETER\tUNIT\t%s\n", strings.Join(ref.Classes, "\t"))
	for _, row := range ref.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Parameter, row.Unit, strings.Join(row.Limits, "\t"))
	}
	return tw.Flush()
}
