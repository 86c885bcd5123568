package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/obralink/avance/pkg/config"
	"github.com/obralink/avance/pkg/evm"
	"github.com/obralink/avance/pkg/importer"
	"github.com/obralink/avance/pkg/schedule"
)

// runReport computes a single Curva S report and prints it as JSON.
// With --fixture the input comes from a file; otherwise --project reads
// from the configured store.
func runReport(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("report", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		fixturePath string
		projectID   string
		asOfRaw     string
		policyRaw   string
	)
	cmd.StringVar(&fixturePath, "fixture", "", "Path to a fixture JSON file")
	cmd.StringVar(&projectID, "project", "", "Project ID to read from the store")
	cmd.StringVar(&asOfRaw, "as-of", "", "Report cutoff date (YYYY-MM-DD, default today)")
	cmd.StringVar(&policyRaw, "date-policy", "", "Valuation date policy (period_end|period_start)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if fixturePath == "" && projectID == "" {
		fmt.Fprintln(stderr, "Error: --fixture or --project is required")
		cmd.Usage()
		return 2
	}

	opts := evm.Options{}
	if asOfRaw != "" {
		asOf, err := time.Parse("2006-01-02", asOfRaw)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid --as-of %q, want YYYY-MM-DD\n", asOfRaw)
			return 2
		}
		opts.AsOf = asOf
	}
	switch policyRaw {
	case "":
	case string(schedule.DatePeriodEnd), string(schedule.DatePeriodStart):
		opts.ValuationDate = schedule.DatePolicy(policyRaw)
	default:
		fmt.Fprintf(stderr, "Error: unknown --date-policy %q\n", policyRaw)
		return 2
	}

	var (
		project   schedule.Project
		snapshots []schedule.Snapshot
		actuals   []schedule.ActualProgress
	)

	if fixturePath != "" {
		fixture, err := importer.LoadFile(fixturePath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading fixture: %v\n", err)
			return 1
		}
		for _, a := range fixture.Anomalies {
			fmt.Fprintf(stderr, "warning: %s: %s (%s)\n", a.Stage, a.Reason, a.Ref)
		}
		project, snapshots, actuals = fixture.Project, fixture.Snapshots, fixture.Actuals
	} else {
		ctx := context.Background()
		s, closeStore, err := openStore(config.Load())
		if err != nil {
			fmt.Fprintf(stderr, "Error opening store: %v\n", err)
			return 1
		}
		defer closeStore()

		p, err := s.GetProject(ctx, projectID)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		project = *p
		if snapshots, err = s.ListSnapshots(ctx, projectID); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if actuals, err = s.ListActualProgress(ctx, projectID); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	result, anomalies := evm.Compute(project, snapshots, actuals, opts)
	for _, a := range anomalies {
		fmt.Fprintf(stderr, "warning: %s: %s (%s)\n", a.Stage, a.Reason, a.Ref)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "Error encoding report: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
