// Command amb compiles a tree of Markdown articles into an AMB1 archive.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/amblerbook/amb"
	"github.com/amblerbook/amb/mdrender"
)

func main() {
	var (
		title          string
		codepage       string
		listCodepages  bool
		buildIndex     bool
		embeddedSource bool
	)

	flag.StringVar(&title, "title", "", "optional book title stored in the archive")
	flag.StringVar(&codepage, "codepage", "437", "codepage used to encode articles (see -list-codepages)")
	flag.BoolVar(&listCodepages, "list-codepages", false, "print the supported codepage names and exit")
	flag.BoolVar(&buildIndex, "index", true, "build the DICT.IDX word index")
	flag.BoolVar(&embeddedSource, "embed-source", false, "append the original Markdown tree to the archive as a compressed bundle")
	flag.Parse()

	if listCodepages {
		names := amb.ListCodepages()
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if flag.NArg() < 2 {
		log.Fatal("usage: amb [flags] <input.md> <output.amb>")
	}
	root := flag.Arg(0)
	out := flag.Arg(1)

	opts := []amb.BuildOption{
		amb.WithCodepage(codepage),
		amb.WithWordIndex(buildIndex),
		amb.WithEmbeddedSource(embeddedSource),
		amb.WithDiagnostics(func(msg string) { log.Print(msg) }),
	}
	if title != "" {
		opts = append(opts, amb.WithTitle(title))
	}

	archive, err := amb.BuildBook(root, mdrender.Render, mdrender.ParseFrontMatter, opts...)
	if err != nil {
		log.Fatalf("build: %v", err)
	}

	if err := os.WriteFile(out, archive, 0o644); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}
	fmt.Println(out)
}
