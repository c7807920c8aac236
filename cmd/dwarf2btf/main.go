// dwarf2btf translates a DWARF debug-information tree into a BTF type
// section. It is the standalone host for internal/btf: since no real
// compiler debug-info reader lives in this repository, it takes its
// input as a small JSON fixture describing a DIE forest.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jtang613/dwarf2btf/internal/btf"
	"github.com/jtang613/dwarf2btf/internal/dwarf"
	"github.com/jtang613/dwarf2btf/internal/hostio"
)

func main() {
	inPath := flag.String("in", "", "Path to a DIE-forest JSON fixture")
	outPath := flag.String("out", "", "Write the translated BTF as an ELF object to this path")
	showInfo := flag.Bool("show", false, "Print a human-readable type dump")
	showJSON := flag.Bool("json", false, "Print a JSON summary")
	prettyPrint := flag.Bool("pretty", false, "Pretty-print JSON output")
	runID := flag.String("run-id", "", "Correlation id stamped on every diagnostic line (default: a fresh UUID)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -in fixture.json [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -in fixture.json -show\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -in fixture.json -out out.o\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -in fixture.json -json -pretty\n", os.Args[0])
	}

	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	id := *runID
	if id == "" {
		id = uuid.New().String()
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *inPath, err)
		os.Exit(1)
	}

	roots, err := dwarf.FromJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing fixture: %v\n", err)
		os.Exit(1)
	}

	ctx := btf.NewContext()
	ctx.SetDiagSink(func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "dwarf2btf[%s]: "+format+"\n", append([]any{id}, args...)...)
	})

	for _, cu := range roots {
		if err := ctx.AddCompileUnit(cu); err != nil {
			fmt.Fprintf(os.Stderr, "Error registering compile unit: %v\n", err)
			os.Exit(1)
		}
	}

	if err := ctx.Finish(); err != nil {
		fmt.Fprintf(os.Stderr, "Error finishing type graph: %v\n", err)
		os.Exit(1)
	}

	// Default to -show if the caller asked for nothing in particular,
	// the same defaulting pdbdump does for -info.
	if !*showInfo && !*showJSON && *outPath == "" {
		*showInfo = true
	}

	if *showInfo {
		ctx.ShowAll(os.Stdout)
	}

	if *showJSON {
		outputJSON(ctx, id, *prettyPrint)
	}

	if *outPath != "" {
		if err := writeObject(ctx, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *outPath, err)
			os.Exit(1)
		}
	}
}

type summary struct {
	RunID   string `json:"run_id"`
	Types   int    `json:"types"`
	TypeLen uint32 `json:"type_section_bytes"`
	StrLen  uint32 `json:"string_section_bytes"`
}

func outputJSON(ctx *btf.Context, runID string, pretty bool) {
	hdr := ctx.Header()
	s := summary{
		RunID:   runID,
		Types:   ctx.Count(),
		TypeLen: hdr.TypeLen,
		StrLen:  hdr.StrLen,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func writeObject(ctx *btf.Context, path string) error {
	sink := hostio.NewELFSink()
	if err := ctx.Emit(sink, ".BTF"); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = sink.WriteTo(f)
	return err
}
