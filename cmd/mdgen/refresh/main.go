package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	mdgen "github.com/benjamin-wilkins/md-generator"
	"github.com/benjamin-wilkins/md-generator/cmd/mdgen/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		contentRoot = flag.String("content-root", ".", "Directory holding the markdown and html trees")
		sourceRoot  = flag.String("source-root", "", "Source subtree inside the content root (defaults to md/)")
		destRoot    = flag.String("dest-root", "", "Artifact subtree inside the content root (defaults to html/)")
		directory   = flag.String("dir", "", "Restrict the refresh to a subtree of the source root")
		workers     = flag.Int("workers", 0, "Number of parallel compile workers (0 compiles sequentially)")
		dryRun      = flag.Bool("dry-run", false, "Report what would be compiled without writing artifacts")
		extensions  = flag.String("extensions", "", "Comma separated goldmark extensions (defaults to gfm,linkify)")
		safeMode    = flag.Bool("safe-mode", false, "Suppress raw HTML passthrough in rendered output")
		logLevel    = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
		logFormat   = flag.String("log-format", "console", "Log format (json, console, pretty)")
		quiet       = flag.Bool("quiet", false, "Disable logging output")
	)

	flag.Parse()

	module, err := moduleBuilder(bootstrap.Options{
		ContentRoot: *contentRoot,
		SourceRoot:  *sourceRoot,
		DestRoot:    *destRoot,
		Workers:     *workers,
		Extensions:  bootstrap.SplitList(*extensions),
		SafeMode:    *safeMode,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
		Quiet:       *quiet,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	ctx := context.Background()
	compiler := module.Module.Compiler()

	var result mdgen.Result
	if *dryRun {
		result, err = compiler.Plan(ctx, *directory)
	} else {
		result, err = compiler.CompileUnder(ctx, *directory)
	}
	if err != nil {
		log.Fatalf("refresh: %v", err)
	}

	verb := "Compiled"
	if *dryRun {
		verb = "Stale"
	}
	fmt.Fprintf(os.Stdout, "%s: %d\nSkipped: %d\nFailed: %d\n",
		verb, len(result.Compiled), len(result.Skipped), len(result.Failures))

	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "failed %s: %v\n", failure.SourceRef, failure.Err)
	}
	if len(result.Failures) > 0 {
		os.Exit(1)
	}
}
