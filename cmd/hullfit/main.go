// Package main provides the CLI entrypoint for hullfit.
//
// hullfit maps a deformable shell hull onto a beam skeleton:
//   - Associates each shell element with its nearest beam inside an
//     adaptively widened search cone
//   - Splits nodes shared across beams so every node fits one beam
//   - Morphs node coordinates toward the skeleton and records the
//     original positions as a boundary block for the downstream solver
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"

	"hullfit/internal/assoc"
	"hullfit/internal/diagnostic"
	"hullfit/internal/keyword"
	"hullfit/internal/morph"
	"hullfit/internal/pipeline"
)

const (
	toolName    = "hullfit"
	toolVersion = "0.3.0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(toolName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		scale       = fs.Float64("scale", 1, "scale morph: contract node offsets by this factor")
		radius      = fs.Float64("radius", 0, "radius morph: place nodes at this distance from the beam")
		flip        = fs.Bool("flip", false, "negate element normals before the cone search")
		startAngle  = fs.Float64("start-angle", 15, "initial cone half-angle in degrees")
		stepAngle   = fs.Float64("step-angle", 15, "cone widening step in degrees")
		setPath     = fs.String("set", "", "seed the association from a set file")
		saveSet     = fs.String("save-set", "", "write the final association to a set file")
		reassociate = fs.Bool("reassociate", false, "ignore the seed and search from scratch")
		curveID     = fs.Int("curve", 0, "load-curve id referenced by the boundary block")
		bcID        = fs.Int("bc", 1, "id of the written boundary block")
		outPath     = fs.String("o", "", "output deck path")
		force       = fs.Bool("force", false, "overwrite an existing output deck")
		dump        = fs.Bool("dump", false, "dump the final association table to stdout")
		quiet       = fs.Bool("q", false, "suppress progress output")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <deck.k>\n\n", toolName)
		fmt.Fprintln(stderr, "Fits a shell hull onto a beam skeleton and writes the morphed deck.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: exactly one input deck argument is required")
		fs.Usage()

		return 2
	}

	scaleSet, radiusSet := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			scaleSet = true
		case "radius":
			radiusSet = true
		}
	})

	if scaleSet && radiusSet {
		fmt.Fprintln(stderr, "error: -scale and -radius are mutually exclusive")

		return 2
	}

	level := slog.LevelInfo
	if *quiet {
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := pipeline.DefaultConfig()
	cfg.Cone.Flip = *flip
	cfg.Cone.StartAngleDeg = *startAngle
	cfg.Cone.StepAngleDeg = *stepAngle
	cfg.Reassociate = *reassociate
	cfg.CurveID = *curveID

	switch {
	case scaleSet:
		cfg.Mode = morph.ModeScale
		cfg.Param = *scale
	case radiusSet:
		cfg.Mode = morph.ModeRadius
		cfg.Param = *radius
	}

	deckPath := fs.Arg(0)

	if *outPath != "" && !*force {
		if _, err := os.Stat(*outPath); err == nil {
			fmt.Fprintf(stderr, "error: %s exists; use -force to overwrite\n", *outPath)

			return 1
		}
	}

	deck, err := keyword.ReadFile(deckPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)

		return 1
	}

	logger.Info("deck loaded",
		"nodes", deck.Model.NumNodes(),
		"shells", deck.Model.NumShells(),
		"beams", deck.Model.NumBeams())

	var seed *assoc.SetFile
	if *setPath != "" && !*reassociate {
		seed, err = assoc.LoadSetFile(*setPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)

			return 1
		}

		logger.Info("association seed loaded", "path", *setPath, "targets", len(seed.Targets))
	}

	res, err := pipeline.Run(deck.Model, seed, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)

		return 1
	}

	for _, d := range res.Diagnostics.All() {
		switch d.Severity {
		case diagnostic.SeverityError:
			logger.Error(d.String())
		case diagnostic.SeverityWarning:
			logger.Warn(d.String())
		default:
			logger.Info(d.String())
		}
	}

	logger.Info("run finished",
		"outcome", res.Outcome.String(),
		"associated", res.Table.Len(),
		"clones", res.Clones,
		"records", len(res.Records))

	if *dump {
		spew.Fdump(stdout, assoc.ExportSet(res.Table))
	}

	if *saveSet != "" {
		if err := assoc.WriteSetFile(assoc.ExportSet(res.Table), *saveSet); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)

			return 1
		}

		logger.Info("association saved", "path", *saveSet)
	}

	if *outPath != "" {
		var boundary *keyword.Boundary
		if res.Outcome == pipeline.OutcomeMorphed {
			boundary = &keyword.Boundary{ID: *bcID, CurveID: *curveID, Records: res.Records}
		}

		prov := keyword.NewProvenance(toolName, toolVersion)
		if err := keyword.WriteFile(*outPath, deck, prov, boundary); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)

			return 1
		}

		logger.Info("deck written", "path", *outPath, "run", prov.RunID)
	}

	return 0
}
