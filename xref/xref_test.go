package xref

import (
	"bytes"
	"strings"
	"testing"

	"github.com/neta767/asm24/parser"
)

func TestDumpListsSymbolsInInsertionOrder(t *testing.T) {
	symtab := parser.NewSymbolTable()
	if err := symtab.Define("LOOP", 100, parser.CODE); err != nil {
		t.Fatalf("Define LOOP: %v", err)
	}
	if err := symtab.Define("VAL", 0, parser.DATA); err != nil {
		t.Fatalf("Define VAL: %v", err)
	}
	if err := symtab.Define("FOO", 0, parser.EXTERN); err != nil {
		t.Fatalf("Define FOO: %v", err)
	}
	if err := symtab.PromoteToEntry("LOOP"); err != nil {
		t.Fatalf("PromoteToEntry: %v", err)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, symtab); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (header + 3 symbols): %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "KIND") || !strings.Contains(lines[0], "ADDRESS") {
		t.Errorf("header line = %q, want column names", lines[0])
	}

	wantOrder := []string{"LOOP", "VAL", "FOO"}
	for i, name := range wantOrder {
		if !strings.Contains(lines[i+1], name) {
			t.Errorf("line %d = %q, want to contain %q", i+1, lines[i+1], name)
		}
	}
	if !strings.Contains(lines[1], "entry") {
		t.Errorf("LOOP line = %q, want kind entry after promotion", lines[1])
	}
	if !strings.Contains(lines[3], "extern") {
		t.Errorf("FOO line = %q, want kind extern", lines[3])
	}
}

func TestDumpEmptyTableWritesOnlyHeader(t *testing.T) {
	symtab := parser.NewSymbolTable()

	var buf bytes.Buffer
	if err := Dump(&buf, symtab); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("got %d lines, want 1 (header only): %v", len(lines), lines)
	}
}
