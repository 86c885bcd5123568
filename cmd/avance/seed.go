package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/obralink/avance/pkg/config"
	"github.com/obralink/avance/pkg/importer"
)

// runSeed loads a fixture file into the configured store.
func runSeed(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var fixturePath string
	cmd.StringVar(&fixturePath, "fixture", "", "Path to a fixture JSON file (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if fixturePath == "" {
		fmt.Fprintln(stderr, "Error: --fixture is required")
		cmd.Usage()
		return 2
	}

	fixture, err := importer.LoadFile(fixturePath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading fixture: %v\n", err)
		return 1
	}
	for _, a := range fixture.Anomalies {
		fmt.Fprintf(stderr, "warning: %s: %s (%s)\n", a.Stage, a.Reason, a.Ref)
	}

	s, closeStore, err := openStore(config.Load())
	if err != nil {
		fmt.Fprintf(stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer closeStore()

	if err := importer.Seed(context.Background(), s, fixture); err != nil {
		fmt.Fprintf(stderr, "Error seeding store: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Seeded project %s (%d snapshots, %d progress records)\n",
		fixture.Project.ID, len(fixture.Snapshots), len(fixture.Actuals))
	return 0
}
