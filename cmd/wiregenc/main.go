// Command wiregenc compiles a set of protocol schema files into generated
// source for one target language, per spec.md §6's CLI surface.
//
// Grounded on clawc.go's flag parsing, osfs.New() filesystem mount, and
// exitf diagnostic helper, and its "directory or direct file path" input
// handling — generalized from a single .claw entry file plus git-vendored
// imports to a flat list of schema files the solver orders itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	osfs "github.com/gopherfs/fs/io/os"

	"github.com/bearlytools/wiregen/internal/codegen"
	"github.com/bearlytools/wiregen/internal/codegen/golang"
	"github.com/bearlytools/wiregen/internal/config"
	"github.com/bearlytools/wiregen/internal/ir"
	"github.com/bearlytools/wiregen/internal/schema"
	"github.com/bearlytools/wiregen/internal/solver"
)

func main() {
	configPath := flag.String("config", "wiregen.cfg", "path to the configuration file")
	outDir := flag.String("out", ".", "directory to write generated files into")
	// SPEC_FULL.md §4 supplement, grounded on original_source/testprog/build.rs's
	// path-manifest printing: print the generated file names instead of
	// writing them, for build-system integration.
	printPaths := flag.Bool("print-paths", false, "print generated file paths instead of writing their contents")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		exitf("usage: wiregenc [flags] schema.json [schema.json ...]")
	}

	fs, err := osfs.New()
	if err != nil {
		exitf("can't access the filesystem: %s", err)
	}

	var cfg *config.Config
	if b, err := fs.ReadFile(*configPath); err == nil {
		cfg, err = config.Parse(string(b))
		if err != nil {
			exitf("error reading %s: %s", *configPath, err)
		}
	} else {
		cfg = &config.Config{PackageName: "generated"}
	}

	paths, err := schemaPaths(fs, args)
	if err != nil {
		exitf("%s", err)
	}

	docs := make([]*schema.Document, 0, len(paths))
	for _, p := range paths {
		b, err := fs.ReadFile(p)
		if err != nil {
			exitf("reading %s: %s", p, err)
		}
		doc, err := schema.Parse(b)
		if err != nil {
			exitf("parsing %s: %s", p, err)
		}
		doc.Path = p
		if err := doc.Validate(); err != nil {
			exitf("%s: %s", p, err)
		}
		docs = append(docs, doc)
	}

	store := ir.NewProtocolStore()
	ctx := context.Background()
	opts := solver.Options{}
	if cfg.MaxIterations > 0 {
		opts.MaxIterations = cfg.MaxIterations
	}
	if err := solver.Run(ctx, docs, store, opts); err != nil {
		exitf("%s", err)
	}

	util := golang.Utilities{Package: cfg.PackageName}
	for _, proto := range store.Ordered() {
		files, err := codegen.Generate(proto, util)
		if err != nil {
			exitf("generating %s: %s", proto.Name, err)
		}
		for _, f := range files {
			if *printPaths {
				fmt.Println(filepath.Join(*outDir, f.Name))
				continue
			}
			if err := os.WriteFile(filepath.Join(*outDir, f.Name), f.Content, 0o644); err != nil {
				exitf("writing %s: %s", f.Name, err)
			}
		}
	}
}

// schemaPaths expands args into a flat list of schema file paths, the way
// clawc.go's "directory or direct file path" branch does for .claw files:
// a directory argument contributes every *.json file directly inside it.
func schemaPaths(fsys interface {
	ReadDir(string) ([]os.DirEntry, error)
}, args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if !strings.HasSuffix(a, ".json") {
			entries, err := fsys.ReadDir(a)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", a, err)
			}
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
					out = append(out, filepath.Join(a, e.Name()))
				}
			}
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
