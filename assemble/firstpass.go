// Package assemble drives the two passes that turn one preprocessed
// ".am" file into code/data images and a resolved symbol table, then
// serializes the result to ".ob"/".ent"/".ext" files. Grounded on
// original_source/first_pass.c and original_source/second_pass.c.
package assemble

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/neta767/asm24/codeseg"
	"github.com/neta767/asm24/encode"
	"github.com/neta767/asm24/isa"
	"github.com/neta767/asm24/parser"
)

// ExternUse records one site where an external symbol's address was
// patched into the code segment, for the ".ext" output file.
type ExternUse struct {
	Name    string
	Address int
}

// Result is everything the two passes produce for one source file.
type Result struct {
	Code       *codeseg.Store
	Data       *codeseg.Store
	Symbols    *parser.SymbolTable
	Errors     *parser.ErrorList
	ExternUses []ExternUse

	memoryExceeded bool // sticky: one error reported, further emission silently dropped
}

// FirstPass scans amPath (a ".am" file already expanded by the
// preprocessor) and builds the code segment, data segment and symbol
// table. It never stops at the first error — every line is scanned so
// a single run surfaces every problem (spec.md §4.2).
func FirstPass(amPath string) *Result {
	r := &Result{
		Code:    codeseg.NewStore(isa.ICInitial),
		Data:    codeseg.NewStore(isa.DCInitial),
		Symbols: parser.NewSymbolTable(),
		Errors:  &parser.ErrorList{},
	}

	f, err := os.Open(amPath) // #nosec G304 -- path built from the user-supplied input name
	if err != nil {
		r.Errors.AddError(parser.NewError(parser.Position{Filename: amPath}, parser.ErrorFileIO,
			fmt.Sprintf("can't open %s", amPath)))
		return r
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		r.processLine(amPath, lineNum, scanner.Text())
	}

	icFinal := r.Code.Next()
	r.Symbols.RebaseData(icFinal)
	r.Data.Rebase(icFinal)
	return r
}

func (r *Result) processLine(filename string, lineNum int, raw string) {
	line := parser.TrimWhitespace(raw)
	if line == "" || line[0] == ';' {
		return
	}

	pos := parser.Position{Filename: filename, Line: lineNum}

	label := ""
	firstTok, rest := parser.FirstWord(line)
	if strings.HasSuffix(firstTok, ":") {
		name := strings.TrimSuffix(firstTok, ":")
		if !parser.ValidName(name, parser.KindLabel) {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "invalid label declaration"))
			return
		}
		if rest == "" {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax,
				"invalid label declaration, no value associated with label"))
			return
		}
		label = name
		firstTok, rest = parser.FirstWord(rest)
	}

	if strings.HasPrefix(firstTok, ".") {
		r.processDirective(pos, firstTok, rest, label)
		return
	}

	if op, ok := isa.Lookup(firstTok); ok {
		r.processInstruction(pos, op, rest, label)
		return
	}

	if label != "" {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, "unrecognized command"))
		return
	}
	r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "unrecognized command, please check syntax"))
}

func (r *Result) processDirective(pos parser.Position, directive, rest, label string) {
	switch directive {
	case isa.DirData:
		r.processData(pos, rest, label)
	case isa.DirString:
		r.processString(pos, rest, label)
	case isa.DirExtern:
		if label != "" {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, "unrecognized command"))
			return
		}
		r.processExtern(pos, rest)
	case isa.DirEntry:
		// .entry is resolved in pass 2 — the label it names may not
		// be defined yet here (spec.md §4.2 "Design decision"). A
		// preceding label is still rejected here, in pass 1, exactly
		// as original_source/first_pass.c does (label[0] != '\0' falls
		// through to "Unrecognized command" for both directives).
		if label != "" {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, "unrecognized command"))
		}
	default:
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "unrecognized command"))
	}
}

func (r *Result) processData(pos parser.Position, rest, label string) {
	if rest == "" {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "instruction \".data\" has no parameters"))
		return
	}
	values, err := parser.ParseIntList(rest)
	if err != nil {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax,
			fmt.Sprintf("instruction \".data\" has an invalid parameter list: %s", err)))
		return
	}
	for _, v := range values {
		if v < isa.Min24Bit || v > isa.Max24Bit {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax,
				"instruction \".data\" parameter is out of 24-bit range"))
			return
		}
	}
	if label != "" {
		if err := r.Symbols.Define(label, r.Data.Next(), parser.DATA); err != nil {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, err.Error()))
			return
		}
	}
	for _, v := range values {
		r.emitData(pos, isa.Mask24(uint32(v)))
	}
}

func (r *Result) processString(pos parser.Position, rest, label string) {
	if rest == "" {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "instruction \".string\" has no parameter"))
		return
	}
	trimmed := parser.TrimWhitespace(rest)
	if len(trimmed) < 2 || trimmed[0] != '"' || trimmed[len(trimmed)-1] != '"' {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax,
			"instruction \".string\" expects one string parameter enclosed in double quotes"))
		return
	}
	body := trimmed[1 : len(trimmed)-1]
	if body == "" {
		r.Errors.AddWarning(&parser.Warning{Pos: pos, Message: "instruction \".string\" parameter is an empty string"})
	}
	if label != "" {
		if err := r.Symbols.Define(label, r.Data.Next(), parser.DATA); err != nil {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, err.Error()))
			return
		}
	}
	for _, c := range []byte(body) {
		r.emitData(pos, isa.Mask24(uint32(c)))
	}
	r.emitData(pos, isa.Mask24(0))
}

func (r *Result) processExtern(pos parser.Position, rest string) {
	name := parser.TrimWhitespace(rest)
	if name == "" {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "instruction \".extern\" must have a label declaration"))
		return
	}
	if parser.ContainsWhitespace(name) {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "instruction \".extern\" allows one label declaration at a time"))
		return
	}
	if !parser.ValidName(name, parser.KindEntry) {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "invalid \".extern\" label declaration"))
		return
	}
	if existing, ok := r.Symbols.LookupDefined(name); ok {
		if existing.Kind != parser.EXTERN {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic,
				"instruction \".extern\" label cannot be the same as a local label"))
			return
		}
		r.Errors.AddWarning(&parser.Warning{Pos: pos, Message: "instruction \".extern\" duplicate declarations will be ignored"})
		return
	}
	if err := r.Symbols.Define(name, 0, parser.EXTERN); err != nil {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, err.Error()))
	}
}

func (r *Result) processInstruction(pos parser.Position, op *isa.Opcode, rest, label string) {
	tokens, err := encode.SplitOperands(rest)
	if err != nil {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, err.Error()))
		return
	}
	if len(tokens) != op.OperandCount {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, operandCountMessage(op.OperandCount, len(tokens))))
		return
	}

	operands := make([]encode.Operand, 0, len(tokens))
	for _, tok := range tokens {
		o, err := encode.Classify(tok)
		if err != nil {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, err.Error()))
			return
		}
		operands = append(operands, o)
	}

	if label != "" {
		if err := r.Symbols.Define(label, r.Code.Next(), parser.CODE); err != nil {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, err.Error()))
			return
		}
	}

	inst, err := encode.Encode(op, operands, r.Code.Next(), r.Symbols)
	if err != nil {
		r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, err.Error()))
		return
	}
	r.emitCode(pos, inst.Opcode)
	for _, w := range inst.Extra {
		r.emitCode(pos, w)
	}
}

func operandCountMessage(want, got int) string {
	switch {
	case got < want:
		if want == 1 {
			return "this instruction has a missing operand"
		}
		return "this instruction has missing operands"
	default:
		if want == 0 {
			return "this instruction has extraneous text, no operands required"
		}
		return "this instruction has extraneous text, too many operands"
	}
}

// emitCode and emitData enforce the shared memory budget and the
// sticky-suppression rule: once capacity is exceeded, one error is
// reported and every later word is silently dropped instead of
// re-reporting the same failure on every remaining line
// (original_source/machine_code.c: add_instruction_code).
func (r *Result) emitCode(pos parser.Position, w isa.Word) {
	if !r.checkCapacity(pos) {
		return
	}
	r.Code.Append(w)
}

func (r *Result) emitData(pos parser.Position, w isa.Word) {
	if !r.checkCapacity(pos) {
		return
	}
	r.Data.Append(w)
}

func (r *Result) checkCapacity(pos parser.Position) bool {
	used := r.Code.Len() + r.Data.Len()
	if used >= isa.MemoryCapacity {
		if !r.memoryExceeded {
			r.memoryExceeded = true
			r.Errors.AddError(parser.NewError(pos, parser.ErrorMemory,
				"memory capacity exceeded, assembler machine-coding is suspended, however line scanning continues"))
		}
		return false
	}
	return true
}
