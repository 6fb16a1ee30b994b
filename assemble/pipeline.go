package assemble

import (
	"github.com/neta767/asm24/parser"
)

// Outcome summarizes running the full pipeline on one input file.
type Outcome struct {
	Name     string
	Errors   *parser.ErrorList
	Warnings []string
	Symbols  *parser.SymbolTable
	OK       bool
}

// Run processes one input file named without extension: pre-process
// "<name>.as" into "<name>.am", run both passes, and emit the object
// files if everything succeeded. It never aborts at the first error —
// every stage collects and reports everything wrong with the file
// before Run returns (spec.md §5 "Driver").
//
// Every file gets fresh state: a new Preprocessor, a new Result, a new
// symbol table. Nothing persists across files (spec.md §5, §9 "No
// shared state").
func Run(name string) Outcome {
	pre := parser.NewPreprocessor()
	if !pre.ProcessFile(name) {
		return Outcome{Name: name, Errors: pre.Errors(), OK: false}
	}

	amPath := name + ".am"
	result := FirstPass(amPath)
	if result.Errors.HasErrors() {
		return Outcome{Name: name, Errors: result.Errors, Warnings: result.Errors.WarningStrings(), OK: false}
	}

	SecondPass(amPath, result)
	if result.Errors.HasErrors() {
		return Outcome{Name: name, Errors: result.Errors, Warnings: result.Errors.WarningStrings(), OK: false}
	}

	if err := WriteOutputs(name, result); err != nil {
		result.Errors.AddError(parser.NewError(parser.Position{Filename: name}, parser.ErrorFileIO, err.Error()))
		return Outcome{Name: name, Errors: result.Errors, OK: false}
	}

	return Outcome{Name: name, Errors: result.Errors, Warnings: result.Errors.WarningStrings(), Symbols: result.Symbols, OK: true}
}
