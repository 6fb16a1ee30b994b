package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/neta767/asm24/isa"
)

// Preprocessor expands macro calls and elides macro definitions,
// turning a "<name>.as" source file into a "<name>.am" expanded file
// (spec.md §4.1). It is single-use: scope it to one input file and
// discard it afterward, so macros never leak across files.
type Preprocessor struct {
	macros *MacroTable
	errors *ErrorList
}

// NewPreprocessor creates a fresh preprocessor with an empty macro table.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{macros: NewMacroTable(), errors: &ErrorList{}}
}

// Errors returns the diagnostics collected by the last ProcessFile call.
func (p *Preprocessor) Errors() *ErrorList {
	return p.errors
}

type ppState int

const (
	stateTop ppState = iota
	stateInMacro
)

// ProcessFile reads "<name>.as" and writes "<name>.am". It returns
// true iff no errors were reported; on any error the .am file is
// deleted (spec.md §4.1 "Contract").
func (p *Preprocessor) ProcessFile(name string) bool {
	if strings.HasSuffix(name, ".as") {
		p.errors.AddError(NewError(Position{Filename: name, Line: 0}, ErrorFileIO,
			"illegal filename, the input name must be given without the \".as\" extension"))
		return false
	}

	srcPath := name + ".as"
	outPath := name + ".am"

	src, err := os.Open(srcPath) // #nosec G304 -- user-provided assembler source path
	if err != nil {
		p.errors.AddError(NewError(Position{Filename: srcPath, Line: 0}, ErrorFileIO,
			fmt.Sprintf("can't open %s", srcPath)))
		return false
	}
	defer src.Close()

	out, err := os.Create(outPath) // #nosec G304 -- user-provided assembler output path
	if err != nil {
		p.errors.AddError(NewError(Position{Filename: outPath, Line: 0}, ErrorFileIO,
			fmt.Sprintf("can't create %s", outPath)))
		return false
	}
	writer := bufio.NewWriter(out)

	state := stateTop
	var current *Macro

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 4096), 4096)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) > isa.MaxLineLength {
			p.errors.AddError(NewError(Position{Filename: srcPath, Line: lineNum}, ErrorSyntax,
				"line too long"))
			continue
		}
		p.processLine(line, lineNum, srcPath, writer, &state, &current)
	}

	writer.Flush()
	out.Close()

	if p.errors.HasErrors() {
		os.Remove(outPath) // #nosec G304 -- cleanup of a file this process just created
		return false
	}
	return true
}

// processLine runs one source line through the TOP/INSIDE_MACRO state
// machine (spec.md §4.1) and writes whatever the state machine decides
// belongs in the expanded output.
func (p *Preprocessor) processLine(line string, lineNum int, filename string, w *bufio.Writer, state *ppState, current **Macro) {
	trimmed := TrimWhitespace(line)

	if *state == stateInMacro {
		if IsStandaloneWord(trimmed, isa.MacroEnd) {
			if trimmed != isa.MacroEnd {
				p.errors.AddError(NewError(Position{Filename: filename, Line: lineNum}, ErrorSyntax,
					"mcroend must be alone on its line"))
				return
			}
			*state = stateTop
			*current = nil
			return
		}
		(*current).Append(line)
		return
	}

	if trimmed == "" {
		w.WriteString(line + "\n")
		return
	}

	if trimmed[0] == ';' {
		if len(line) > 0 && line[0] == ';' {
			w.WriteString(line + "\n")
			return
		}
		p.errors.AddError(NewError(Position{Filename: filename, Line: lineNum}, ErrorSyntax,
			"comment must start at column 1"))
		return
	}

	if IsStandaloneWord(trimmed, isa.MacroStart) {
		name, declErr := parseMacroDeclaration(trimmed, p.macros)
		if declErr != "" {
			p.errors.AddError(NewError(Position{Filename: filename, Line: lineNum}, ErrorSyntax, declErr))
			return
		}
		*current = p.macros.Define(name)
		*state = stateInMacro
		return
	}

	firstTok, _ := FirstWord(trimmed)
	if m, ok := p.macros.Lookup(firstTok); ok {
		for _, bodyLine := range m.Body {
			w.WriteString(bodyLine + "\n")
		}
		return
	}

	w.WriteString(line + "\n")
}

// parseMacroDeclaration validates a "mcro <name>" line and returns the
// macro name, or an error message if the declaration is malformed.
func parseMacroDeclaration(trimmed string, macros *MacroTable) (string, string) {
	_, rest := FirstWord(trimmed)
	name, extra := FirstWord(rest)
	if name == "" {
		return "", "mcro requires a macro name"
	}
	if extra != "" {
		return "", "macro declaration must have exactly one name"
	}
	if len(name) > isa.MaxNameLength {
		return "", "macro name is too long, 30 characters max"
	}
	if !unicode.IsLetter(rune(name[0])) {
		return "", "invalid macro name, must start with a letter"
	}
	for _, c := range name[1:] {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			return "", "invalid macro name, must be alphanumeric (underscore allowed)"
		}
	}
	if isa.IsReservedWord(name) {
		return "", "invalid macro name, reserved words cannot be used as a name"
	}
	if _, exists := macros.Lookup(name); exists {
		return "", "macro name is already in use"
	}
	return name, ""
}
