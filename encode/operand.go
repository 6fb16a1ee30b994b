// Package encode turns a parsed operand token or opcode mnemonic into
// machine words, grounded on original_source/validations.c
// (get_addressing_method) and original_source/machine_code.c
// (handle_one_operand, handle_two_operands, process_instruction_code).
package encode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neta767/asm24/isa"
	"github.com/neta767/asm24/parser"
)

// Operand is one classified operand: its addressing mode plus
// whichever payload that mode carries.
type Operand struct {
	Mode  isa.Mode
	Value int    // Immediate: the literal; Register: the register index
	Label string // Direct/Relative: the referenced label
}

// Classify determines the addressing mode of a single operand token
// (original_source/validations.c: get_addressing_method). It does not
// check the token against an opcode's legal mode set — that is
// Encode's job, once both operands are known.
func Classify(token string) (Operand, error) {
	switch {
	case strings.HasPrefix(token, "#"):
		digits := token[1:]
		if digits == "" {
			return Operand{}, fmt.Errorf("this instruction has an operand that uses an 'IMMEDIATE' method type but has no value")
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Operand{}, fmt.Errorf("this operand is invalid for an 'IMMEDIATE' method type, only integers allowed")
		}
		if n < isa.Min21Bit || n > isa.Max21Bit {
			return Operand{}, fmt.Errorf("this operand is out of range for an 'IMMEDIATE' method type")
		}
		return Operand{Mode: isa.Immediate, Value: n}, nil

	case strings.HasPrefix(token, "&"):
		label := token[1:]
		if label == "" {
			return Operand{}, fmt.Errorf("this instruction has an operand that uses a 'RELATIVE' method type but has no value")
		}
		if !parser.ValidName(label, parser.KindOperand) {
			return Operand{}, fmt.Errorf("this operand is not a valid label for a 'RELATIVE' method type")
		}
		return Operand{Mode: isa.Relative, Label: label}, nil

	default:
		if idx := isa.RegisterIndex(token); idx != -1 {
			return Operand{Mode: isa.Register, Value: idx}, nil
		}
		if !parser.ValidName(token, parser.KindOperand) {
			return Operand{}, fmt.Errorf("this operand is not a valid label or register")
		}
		return Operand{Mode: isa.Direct, Label: token}, nil
	}
}

// SplitOperands splits an instruction's operand field on every comma
// (the caller checks the operand count), rejecting the malformed shapes the original
// assembler flags explicitly (leading, trailing or doubled commas).
func SplitOperands(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, ",") {
		return nil, fmt.Errorf("illegal comma")
	}
	if strings.HasSuffix(s, ",") {
		return nil, fmt.Errorf("missing operand after comma")
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" {
			return nil, fmt.Errorf("multiple consecutive commas")
		}
		out = append(out, tok)
	}
	return out, nil
}
