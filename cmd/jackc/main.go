package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/teris-io/cli"

	"github.com/jacktoolchain/n2t/internal/walk"
	"github.com/jacktoolchain/n2t/pkg/compiler"
	"github.com/jacktoolchain/n2t/pkg/jackvm"
	"github.com/jacktoolchain/n2t/pkg/token"
)

var description = strings.ReplaceAll(`
jackc compiles one or more Jack source files (or a directory tree of them)
into VM bytecode modules, one '.vm' file per input '.jack' class.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("inputs", "The Jack source files (or directories) to compile").
		AsOptional().WithType(cli.TypeString)).
	WithAction(handler)

func handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: no input provided, use --help")
		return -1
	}

	units, err := walk.Collect(args, ".jack")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: unable to collect input files: %s\n", err)
		return -1
	}

	for _, unit := range units {
		if err := compileUnit(unit); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", unit, err)
			return -1
		}
	}

	return 0
}

func compileUnit(path_ string) error {
	content, err := os.ReadFile(path_)
	if err != nil {
		return fmt.Errorf("unable to read input file: %w", err)
	}

	tz := token.NewTokenizer(strings.NewReader(string(content)))
	tokens, err := tz.Tokenize()
	if err != nil {
		return fmt.Errorf("tokenizing failed: %w", err)
	}

	instructions, err := compiler.NewGenerator(tokens).Compile()
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	lines := make([]string, 0, len(instructions))
	for _, inst := range instructions {
		s, err := jackvm.String(inst)
		if err != nil {
			return fmt.Errorf("code generation failed: %w", err)
		}
		lines = append(lines, s)
	}

	extension := path.Ext(path_)
	output, err := os.Create(strings.TrimSuffix(path_, extension) + ".vm")
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer output.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(output, line); err != nil {
			return fmt.Errorf("unable to write output file: %w", err)
		}
	}

	return nil
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
