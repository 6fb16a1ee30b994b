package isa

import "testing"

func TestLookupKnownMnemonic(t *testing.T) {
	op, ok := Lookup("mov")
	if !ok {
		t.Fatal("mov should be a known mnemonic")
	}
	if op.OperandCount != 2 {
		t.Errorf("mov.OperandCount = %d, want 2", op.OperandCount)
	}
	if !op.SrcModes.Allows(Immediate) || !op.DstModes.Allows(Register) {
		t.Error("mov should allow immediate source and register-direct destination")
	}
}

func TestLookupUnknownMnemonic(t *testing.T) {
	if _, ok := Lookup("xyz"); ok {
		t.Error("xyz should not resolve to an opcode")
	}
}

func TestOneOperandOpcodesRejectSourceModes(t *testing.T) {
	op, ok := Lookup("clr")
	if !ok {
		t.Fatal("clr should be known")
	}
	if op.SrcModes != None {
		t.Error("clr takes one operand, its SrcModes should be empty")
	}
	if op.DstModes.Allows(Immediate) {
		t.Error("clr's destination may not be immediate")
	}
}

func TestRegisterIndex(t *testing.T) {
	if RegisterIndex("r0") != 0 || RegisterIndex("r7") != 7 {
		t.Error("register indices should run r0..r7 -> 0..7")
	}
	if RegisterIndex("r8") != -1 {
		t.Error("r8 is not a register")
	}
}

func TestIsReservedWord(t *testing.T) {
	cases := []string{"mov", "r3", ".data", "mcro", "mcroend"}
	for _, name := range cases {
		if !IsReservedWord(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	if IsReservedWord("counter") {
		t.Error("counter should not be reserved")
	}
}

func TestModeSetAllows(t *testing.T) {
	if !Methods013.Allows(Immediate) || !Methods013.Allows(Direct) || !Methods013.Allows(Register) {
		t.Error("Methods013 should allow immediate, direct and register")
	}
	if Methods013.Allows(Relative) {
		t.Error("Methods013 should not allow relative")
	}
}
