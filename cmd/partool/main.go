// Copyright (c) 2026 MedievalDev
// SPDX-License-Identifier: MIT

// Command partool inspects, converts, diffs and merges Two Worlds 1
// .par parameter files.
//
// Usage:
//
//	partool info <file.par>
//	partool export <file.par> <out.json>
//	partool import <in.json> <out.par>
//	partool diff <source.par> <input.par>
//	partool merge <source.par> <input.par> -o <out.par>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	par "github.com/MedievalDev/TwoWorlds-PAR-Editor"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "info":
		return cmdInfo(rest)
	case "export":
		return cmdExport(rest)
	case "import":
		return cmdImport(rest)
	case "diff":
		return cmdDiff(rest)
	case "merge":
		return cmdMerge(rest)
	case "help", "--help", "-h":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `partool - Two Worlds 1 .par parameter file tool

Commands:
  info    <file.par>                      show container structure
  export  <file.par> <out.json>           export to JSON
  import  <in.json> <out.par>             rebuild a .par from JSON
  diff    <source.par> <input.par>        compare two files by entry name
  merge   <source.par> <input.par>        apply input's changes onto source

Run 'partool <command> --help' for command flags.
`)
}

// loadPar reads a .par file from disk, unwraps the zlib stream(s) and
// decodes the payload.
func loadPar(path string) (*par.Wrapped, *par.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	wrapped, err := par.Unwrap(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	doc, err := par.Decode(wrapped.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return wrapped, doc, nil
}

// savePar encodes doc and writes it in the same wrapper shape it was
// loaded in.
func savePar(path string, wrapped *par.Wrapped, doc *par.Document) error {
	payload, err := par.Encode(doc)
	if err != nil {
		return err
	}
	out, err := wrapped.Rewrap(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// loadLabels builds the label table: built-in defaults, then an
// optional names file, then an optional descriptions file.
func loadLabels(namesPath, descPath string) (*par.LabelTable, error) {
	labels := par.DefaultLabels()
	if namesPath != "" {
		data, err := os.ReadFile(namesPath)
		if err != nil {
			return nil, err
		}
		if err := labels.LoadNames(data); err != nil {
			return nil, fmt.Errorf("%s: %w", namesPath, err)
		}
	}
	if descPath != "" {
		data, err := os.ReadFile(descPath)
		if err != nil {
			return nil, err
		}
		if err := labels.LoadDescriptions(data); err != nil {
			return nil, fmt.Errorf("%s: %w", descPath, err)
		}
	}
	return labels, nil
}

func cmdInfo(args []string) error {
	flags := pflag.NewFlagSet("info", pflag.ContinueOnError)
	fingerprints := flags.Bool("fingerprints", false, "print each entry's content fingerprint")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: partool info <file.par>")
	}
	path := flags.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	wrapped, err := par.Unwrap(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	doc, err := par.Decode(wrapped.Payload)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Printf("PAR File: %s\n", path)
	if wrapped.Compressed {
		fmt.Printf("Compressed: zlib (%d -> %d bytes)\n", len(raw), len(wrapped.Payload))
		if wrapped.Header != nil {
			fmt.Printf("Wrapper:  %d bytes\n", len(wrapped.Header))
		}
	}
	fmt.Printf("Version:  0x%X\n", doc.Version)
	fmt.Printf("Lists:    %d\n", len(doc.Lists))
	fmt.Printf("Entries:  %d\n", doc.EntryCount())
	if len(doc.Trailing) > 0 {
		fmt.Printf("Trailing: %d bytes\n", len(doc.Trailing))
	}
	fmt.Println()

	for li, l := range doc.Lists {
		fmt.Printf("  List %d: %d entries (unk1=0x%X, unk2=0x%X)\n",
			li, len(l.Entries), l.Unknown1, l.Unknown2)
		for ei, e := range l.Entries {
			types := make([]string, len(e.Fields))
			for i, id := range e.TypeIDs() {
				types[i] = id.String()
			}
			fmt.Printf("    [%d] %s  (%s)\n", ei, e.Name, strings.Join(types, ", "))
			if *fingerprints {
				sum := e.Fingerprint()
				fmt.Printf("        %s\n", hex.EncodeToString(sum[:8]))
			}
		}
	}
	return nil
}

func cmdExport(args []string) error {
	flags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	namesPath := flags.String("labels", "", "field name table (JSONC)")
	descPath := flags.String("descriptions", "", "field description table (JSONC)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: partool export <file.par> <out.json>")
	}

	_, doc, err := loadPar(flags.Arg(0))
	if err != nil {
		return err
	}
	labels, err := loadLabels(*namesPath, *descPath)
	if err != nil {
		return err
	}

	data, err := par.MarshalDocument(doc, labels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flags.Arg(1), data, 0644); err != nil {
		return err
	}
	fmt.Printf("Exported %d lists, %d entries to %s\n",
		len(doc.Lists), doc.EntryCount(), flags.Arg(1))
	return nil
}

func cmdImport(args []string) error {
	flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
	compress := flags.Bool("compress", false, "write a zlib-wrapped .par")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: partool import <in.json> <out.par>")
	}

	data, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return err
	}
	doc, err := par.UnmarshalDocument(data)
	if err != nil {
		return fmt.Errorf("%s: %w", flags.Arg(0), err)
	}

	wrapped := &par.Wrapped{Compressed: *compress}
	if err := savePar(flags.Arg(1), wrapped, doc); err != nil {
		return err
	}
	fmt.Printf("Wrote %d lists, %d entries to %s\n",
		len(doc.Lists), doc.EntryCount(), flags.Arg(1))
	return nil
}

func cmdDiff(args []string) error {
	flags := pflag.NewFlagSet("diff", pflag.ContinueOnError)
	originalPath := flags.String("original", "", "unmodified baseline for three-way context")
	namesPath := flags.String("labels", "", "field name table (JSONC)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: partool diff <source.par> <input.par>")
	}

	_, source, err := loadPar(flags.Arg(0))
	if err != nil {
		return err
	}
	_, input, err := loadPar(flags.Arg(1))
	if err != nil {
		return err
	}
	var original *par.Document
	if *originalPath != "" {
		if _, original, err = loadPar(*originalPath); err != nil {
			return err
		}
	}
	labels, err := loadLabels(*namesPath, "")
	if err != nil {
		return err
	}

	diffs := par.Compare(source, input, original)
	printDiffs(diffs, labels)
	fmt.Printf("\n%d differences\n", len(diffs))
	return nil
}

func printDiffs(diffs []par.EntryDiff, labels *par.LabelTable) {
	for _, d := range diffs {
		switch d.Kind {
		case par.DiffChanged:
			fmt.Printf("~ %s\n", d.Name)
			for _, c := range d.Changes {
				name := fmt.Sprintf("field %d", c.Index)
				if l, ok := labels.Get(d.SourceFields, c.Index); ok {
					name = l.Name
				}
				line := fmt.Sprintf("    %-24s %s -> %s", name, c.Source, c.Input)
				if c.Original != nil {
					line += fmt.Sprintf("  (was %s)", *c.Original)
				}
				fmt.Println(line)
			}
		case par.DiffAddedInInput:
			fmt.Printf("+ %s (%d fields)\n", d.Name, d.InputFields)
		case par.DiffOnlyInSource:
			fmt.Printf("- %s (%d fields, input lacks it)\n", d.Name, d.SourceFields)
		case par.DiffStructureConflict:
			fmt.Printf("! %s (source %d fields, input %d fields)\n",
				d.Name, d.SourceFields, d.InputFields)
		}
	}
}

func cmdMerge(args []string) error {
	flags := pflag.NewFlagSet("merge", pflag.ContinueOnError)
	outPath := flags.StringP("output", "o", "", "output file (required)")
	take := flags.StringSlice("take", []string{"changed", "added"},
		"diff kinds to apply: changed, added, conflicts")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 || *outPath == "" {
		return fmt.Errorf("usage: partool merge <source.par> <input.par> -o <out.par>")
	}

	wrapped, source, err := loadPar(flags.Arg(0))
	if err != nil {
		return err
	}
	_, input, err := loadPar(flags.Arg(1))
	if err != nil {
		return err
	}

	wantKind := map[par.DiffKind]bool{}
	for _, k := range *take {
		switch k {
		case "changed":
			wantKind[par.DiffChanged] = true
		case "added":
			wantKind[par.DiffAddedInInput] = true
		case "conflicts":
			wantKind[par.DiffStructureConflict] = true
		default:
			return fmt.Errorf("unknown --take kind %q", k)
		}
	}

	diffs := par.Compare(source, input, nil)
	selected := par.Selection{}
	for _, d := range diffs {
		if wantKind[d.Kind] {
			selected[d.ID] = nil
		}
	}

	if _, err := par.Merge(source, diffs, selected); err != nil {
		return err
	}
	if err := savePar(*outPath, wrapped, source); err != nil {
		return err
	}
	fmt.Printf("Applied %d of %d differences, wrote %s\n",
		len(selected), len(diffs), *outPath)
	return nil
}
