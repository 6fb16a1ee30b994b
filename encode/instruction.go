package encode

import (
	"fmt"

	"github.com/neta767/asm24/isa"
	"github.com/neta767/asm24/parser"
)

// Instruction is the result of encoding one assembly-language
// instruction line: the fixed opcode word plus zero, one or two
// extra words carrying its operands.
type Instruction struct {
	Opcode isa.Word   // first word: opcode, funct, modes, registers
	Extra  []isa.Word // zero, one or two additional words
}

// legalMode reports whether mode is admitted by set, producing the
// two distinct messages original_source/validations.c: is_method_legal
// uses depending on operand position.
func legalMode(set isa.ModeSet, mode isa.Mode, position string) error {
	if !set.Allows(mode) {
		return fmt.Errorf("this instruction uses an illegal method for a %s operand", position)
	}
	return nil
}

// Encode builds the machine words for one instruction line. ic is the
// address the opcode word itself will occupy; symtab records a FIFO
// operand reference for every DIRECT/RELATIVE operand so pass 2 can
// resolve it later (spec.md §4.4). Register-direct operands are
// resolved immediately and never enqueue a reference or consume an
// extra word — original_source/machine_code.c's process_instruction_code
// silently falls through its switch's default case for that mode.
func Encode(op *isa.Opcode, operands []Operand, ic int, symtab *parser.SymbolTable) (Instruction, error) {
	var src, dst *Operand
	switch len(operands) {
	case 0:
	case 1:
		dst = &operands[0]
	case 2:
		src, dst = &operands[0], &operands[1]
	default:
		return Instruction{}, fmt.Errorf("instruction takes at most two operands")
	}

	if src != nil {
		if err := legalMode(op.SrcModes, src.Mode, "source"); err != nil {
			return Instruction{}, err
		}
	}
	if dst != nil {
		if err := legalMode(op.DstModes, dst.Mode, "destination"); err != nil {
			return Instruction{}, err
		}
	}

	word := uint32(op.Code)<<isa.OpcodeShift | uint32(op.Funct)<<isa.FunctShift | uint32(isa.LinkageAbsolute)
	if src != nil {
		word |= uint32(src.Mode) << isa.SrcModeShift
		if src.Mode == isa.Register {
			word |= uint32(src.Value) << isa.SrcRegShift
		}
	}
	if dst != nil {
		word |= uint32(dst.Mode) << isa.DstModeShift
		if dst.Mode == isa.Register {
			word |= uint32(dst.Value) << isa.DstRegShift
		}
	}

	inst := Instruction{Opcode: isa.Mask24(word)}

	slot := ic + 1
	if src != nil {
		if w, ok := extraWord(*src, slot, symtab); ok {
			inst.Extra = append(inst.Extra, w)
			slot++
		}
	}
	if dst != nil {
		if w, ok := extraWord(*dst, slot, symtab); ok {
			inst.Extra = append(inst.Extra, w)
		}
	}
	return inst, nil
}

// extraWord produces the provisional extra word for one operand, if
// its addressing mode needs one. Register-direct operands need none.
func extraWord(o Operand, slotAddr int, symtab *parser.SymbolTable) (isa.Word, bool) {
	switch o.Mode {
	case isa.Immediate:
		v := uint32(o.Value) & isa.Mask21Bit
		return isa.Mask24(v<<isa.FunctShift | uint32(isa.LinkageAbsolute)), true
	case isa.Direct:
		symtab.Reference(o.Label, slotAddr)
		return isa.Word(isa.MarkerDirect), true
	case isa.Relative:
		symtab.Reference(o.Label, slotAddr)
		v := uint32(slotAddr) & isa.Mask21Bit
		return isa.Mask24(v<<isa.FunctShift | uint32(isa.MarkerRelative)), true
	default: // Register: resolved into the opcode word, no extra word
		return 0, false
	}
}
