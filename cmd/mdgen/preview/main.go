package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/benjamin-wilkins/md-generator/cmd/mdgen/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

type repeatedFlag []string

func (f *repeatedFlag) String() string { return fmt.Sprint([]string(*f)) }

func (f *repeatedFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var blocks, bindings repeatedFlag
	var (
		contentRoot = flag.String("content-root", ".", "Directory holding the markdown and html trees")
		templateDir = flag.String("template-dir", "", "Directory holding the base layout templates (defaults to templates/)")
		layout      = flag.String("layout", "", "Base layout template, relative to the template directory")
		out         = flag.String("out", "", "Write the rendered page to this file instead of stdout")
		quiet       = flag.Bool("quiet", true, "Disable logging output")
	)
	flag.Var(&blocks, "block", "Block binding as name=fragment (repeatable)")
	flag.Var(&bindings, "set", "Template binding as key=value (repeatable)")

	flag.Parse()

	if *layout == "" {
		log.Fatalf("--layout is required")
	}

	blockRefs, err := bootstrap.ParsePairs(blocks)
	if err != nil {
		log.Fatalf("parse --block: %v", err)
	}
	values, err := bootstrap.ParsePairs(bindings)
	if err != nil {
		log.Fatalf("parse --set: %v", err)
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentRoot: *contentRoot,
		TemplateDir: *templateDir,
		Quiet:       *quiet,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	ctx := context.Background()

	page := module.Module.CreatePage(*layout)
	for name, fragment := range blockRefs {
		if err := page.AddBlock(ctx, name, fragment); err != nil {
			log.Fatalf("bind block %s: %v", name, err)
		}
	}

	renderContext := map[string]any{}
	for key, value := range values {
		renderContext[key] = value
	}

	rendered, err := page.Render(ctx, renderContext)
	if err != nil {
		log.Fatalf("render page: %v", err)
	}

	if *out == "" {
		fmt.Fprint(os.Stdout, rendered)
		return
	}
	if err := os.WriteFile(*out, []byte(rendered), 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
}
