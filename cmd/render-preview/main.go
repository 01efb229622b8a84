package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Conceptual-Machines/magda-harmony/internal/config"
	"github.com/Conceptual-Machines/magda-harmony/internal/generation"
	"github.com/Conceptual-Machines/magda-harmony/internal/preview"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "render-preview: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()

	flags := flag.NewFlagSet("render-preview", flag.ContinueOnError)
	flags.SetOutput(stderr)
	key := flags.String("key", "C", "Key name, e.g. \"A minor\" or \"F#\".")
	meter := flags.String("meter", "4/4", "Time signature, e.g. 6/8.")
	measures := flags.Int("measures", 8, "Number of measures.")
	complexity := flags.Int("complexity", cfg.DefaultComplexity, "Complexity from 1 to 10.")
	seed := flags.Int64("seed", -1, "Seed for reproducible output; negative picks a random seed.")
	tempo := flags.Float64("tempo", cfg.PreviewTempo, "Tempo in BPM.")
	out := flags.String("out", "preview.mid", "Output file; - writes the MIDI file to standard output.")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Renders a generated chord progression as a Standard MIDI File.\nUsage: render-preview [flags]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *measures < 1 || *measures > cfg.MaxMeasures {
		return fmt.Errorf("measures must be between 1 and %d", cfg.MaxMeasures)
	}

	g := generation.NewRandomGenerator()
	if *seed >= 0 {
		g = generation.NewGenerator(uint64(*seed))
	}

	comp, err := preview.Compose(g, preview.Request{
		Key:        *key,
		Meter:      *meter,
		Measures:   *measures,
		Complexity: *complexity,
		Tempo:      *tempo,
	})
	if err != nil {
		return err
	}
	data, err := preview.Render(ctx, comp.Input)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "seed %d: %s\n", g.Seed(), strings.Join(comp.Progression, " "))

	if *out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(stderr, "wrote %s (%d bytes)\n", *out, len(data))
	return nil
}
