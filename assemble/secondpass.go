package assemble

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/neta767/asm24/isa"
	"github.com/neta767/asm24/parser"
)

// SecondPass resolves every DIRECT/RELATIVE operand queued during
// pass 1 against the now-complete symbol table, and processes
// ".entry" declarations (deferred from pass 1 since the label they
// name might not have existed yet — spec.md §4.2 "Design decision").
// Grounded on original_source/second_pass.c: code_operand_labels, is_entry.
func SecondPass(amPath string, r *Result) {
	resolveOperands(r)
	scanEntries(amPath, r)
}

// resolveOperands walks every code word carrying a provisional
// linkage marker and patches it from the next queued operand
// reference, in FIFO order (original_source/second_pass.c:
// code_operand_labels).
func resolveOperands(r *Result) {
	for _, cell := range r.Code.Cells() {
		linkage := isa.Linkage(cell.Value & 0x7)
		switch linkage {
		case isa.MarkerDirect:
			resolveDirect(r, cell.Address)
		case isa.MarkerRelative:
			resolveRelative(r, cell.Address, cell.Value)
		}
	}
}

func resolveDirect(r *Result, addr int) {
	ref, ok := r.Symbols.PopOperand()
	if !ok {
		return
	}
	sym, ok := r.Symbols.LookupDefined(ref.Name)
	if !ok {
		r.Errors.AddError(parser.NewError(parser.Position{Line: addr}, parser.ErrorSemantic,
			fmt.Sprintf("unrecognized operand %q, please check syntax", ref.Name)))
		return
	}
	var word uint32
	if sym.Kind == parser.EXTERN {
		word = uint32(isa.LinkageExternal)
		r.ExternUses = append(r.ExternUses, ExternUse{Name: sym.Name, Address: addr})
	} else {
		word = (uint32(sym.Address) & isa.Mask21Bit) << isa.FunctShift
		word |= uint32(isa.LinkageRelocatable)
	}
	r.Code.Set(addr, isa.Mask24(word))
}

func resolveRelative(r *Result, addr int, provisional isa.Word) {
	ref, ok := r.Symbols.PopOperand()
	if !ok {
		return
	}
	sym, ok := r.Symbols.LookupDefined(ref.Name)
	if !ok {
		r.Errors.AddError(parser.NewError(parser.Position{Line: addr}, parser.ErrorSemantic,
			fmt.Sprintf("unrecognized operand %q, please check syntax", ref.Name)))
		return
	}
	if sym.Kind == parser.EXTERN {
		r.Errors.AddError(parser.NewError(parser.Position{Line: addr}, parser.ErrorSemantic,
			fmt.Sprintf("relative reference to external/undefined label %s", ref.Name)))
		return
	}
	ownAddr := int(uint32(provisional) >> isa.FunctShift)
	offset := (sym.Address - ownAddr + 1) & isa.Mask21Bit
	word := uint32(offset)<<isa.FunctShift | uint32(isa.LinkageAbsolute)
	r.Code.Set(addr, isa.Mask24(word))
}

// scanEntries re-reads the .am file looking for ".entry <label>"
// lines and promotes the matching symbol.
func scanEntries(amPath string, r *Result) {
	f, err := os.Open(amPath) // #nosec G304 -- path built from the user-supplied input name
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := parser.TrimWhitespace(scanner.Text())
		if line == "" || line[0] == ';' {
			continue
		}
		tok, rest := parser.FirstWord(line)
		label := ""
		if strings.HasSuffix(tok, ":") {
			label = strings.TrimSuffix(tok, ":")
			tok, rest = parser.FirstWord(rest)
		}
		if tok != isa.DirEntry {
			continue
		}
		pos := parser.Position{Filename: amPath, Line: lineNum}
		if label != "" {
			// A label before ".entry" is rejected in pass 1 already
			// (see processDirective); this re-scan only needs to skip
			// the line here, not duplicate the diagnostic.
			continue
		}
		name := parser.TrimWhitespace(rest)
		if name == "" {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "instruction \".entry\" must have a label declaration"))
			continue
		}
		if parser.ContainsWhitespace(name) {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "instruction \".entry\" allows one label declaration at a time"))
			continue
		}
		if !parser.ValidName(name, parser.KindEntry) {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSyntax, "invalid \".entry\" label declaration"))
			continue
		}
		if err := r.Symbols.PromoteToEntry(name); err != nil {
			r.Errors.AddError(parser.NewError(pos, parser.ErrorSemantic, err.Error()))
		}
	}
}
