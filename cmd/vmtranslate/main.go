package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"github.com/jacktoolchain/n2t/internal/walk"
	"github.com/jacktoolchain/n2t/pkg/hackasm"
	"github.com/jacktoolchain/n2t/pkg/hackvm"
	"github.com/jacktoolchain/n2t/pkg/translate"
)

var description = strings.ReplaceAll(`
vmtranslate translates a single VM bytecode file, or a directory tree of
them, into a Hack assembly program. Directory mode prepends the SP=256 /
call Sys.init 0 bootstrap sequence and writes '<dir>/<dir-basename>.asm';
single-file mode omits the bootstrap and writes '<basename>.asm'.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("path", "The VM bytecode file or directory to translate").
		AsOptional().WithType(cli.TypeString)).
	WithAction(handler)

func handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: no input provided, use --help")
		return -1
	}
	root := args[0]

	info, err := os.Stat(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to stat input path: %s\n", err)
		return -1
	}

	isDir := info.IsDir()
	output := outputPath(root, isDir)

	units, err := walk.Collect(args, ".vm")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to collect input files: %s\n", err)
		return -1
	}

	tr := translate.New()
	if isDir {
		tr.Bootstrap()
	}

	for _, unit := range units {
		if err := translateUnit(tr, unit); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", unit, err)
			return -1
		}
	}

	cg := hackasm.NewCodeGenerator(tr.Statements())
	compiled, err := cg.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to complete codegen pass: %s\n", err)
		return -1
	}

	file, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to open output file: %s\n", err)
		return -1
	}
	defer file.Close()

	for _, line := range compiled {
		if _, err := fmt.Fprintln(file, line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: unable to write output file: %s\n", err)
			return -1
		}
	}

	return 0
}

// outputPath derives the '.asm' target per spec.md §6: directory mode
// writes '<dir>/<dir-basename>.asm', single-file mode writes '<basename>.asm'
// next to the source.
func outputPath(root string, isDir bool) string {
	if isDir {
		clean := filepath.Clean(root)
		return filepath.Join(clean, filepath.Base(clean)+".asm")
	}
	extension := filepath.Ext(root)
	return strings.TrimSuffix(root, extension) + ".asm"
}

func translateUnit(tr *translate.Translator, path_ string) error {
	content, err := os.ReadFile(path_)
	if err != nil {
		return fmt.Errorf("unable to read input file: %w", err)
	}

	parser := hackvm.NewParser(strings.NewReader(string(content)))
	instructions, err := parser.Parse()
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	extension := filepath.Ext(path_)
	tr.SetModule(strings.TrimSuffix(filepath.Base(path_), extension))

	for _, inst := range instructions {
		if err := tr.Translate(inst); err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
	}

	return nil
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
