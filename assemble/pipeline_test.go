package assemble

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".as")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return filepath.Join(dir, name)
}

func readObjectFile(t *testing.T, base string) []string {
	t.Helper()
	content, err := os.ReadFile(base + ".ob")
	if err != nil {
		t.Fatalf("ReadFile .ob: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	return lines
}

// S1 — minimal data.
func TestRunMinimalData(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "s1", "; test\nLEN: .data 6,-9,15\n")

	outcome := Run(base)
	if !outcome.OK {
		t.Fatalf("assembly failed: %v", outcome.Errors.Strings())
	}

	lines := readObjectFile(t, base)
	// Header is "<code_len> <data_len>" (spec.md §6); this program has
	// no instructions at all, so code_len is 0. The data words still
	// land at 100..102 since DATA addresses are rebased by IC_FINAL
	// (=100, unchanged from ICInitial when no code was emitted).
	want := []string{
		"0 3",
		"0000100 000006",
		"0000101 fffff7",
		"0000102 00000f",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf(".ob =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
	if _, err := os.Stat(base + ".ent"); err == nil {
		t.Error(".ent should be omitted when there are no entries")
	}
	if _, err := os.Stat(base + ".ext"); err == nil {
		t.Error(".ext should be omitted when there are no externs")
	}
}

// S2 — instruction with immediate and register.
func TestRunImmediateAndRegister(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "s2", "START: mov #-1, r3\n       stop\n")

	outcome := Run(base)
	if !outcome.OK {
		t.Fatalf("assembly failed: %v", outcome.Errors.Strings())
	}

	lines := readObjectFile(t, base)
	want := []string{
		"3 0",
		"0000100 001b04",
		"0000101 fffffc",
		"0000102 3c0004",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf(".ob =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

// S3 — a relative reference to an extern label is an error.
func TestRunRelativeToExternIsError(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "s3", ".extern FOO\n       jmp &FOO\n       stop\n")

	outcome := Run(base)
	if outcome.OK {
		t.Fatal("expected failure for a relative reference to an extern label")
	}
	found := false
	for _, e := range outcome.Errors.Strings() {
		if strings.Contains(e, "relative reference to external/undefined label FOO") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the extern/relative error, got %v", outcome.Errors.Strings())
	}
	if _, err := os.Stat(base + ".ob"); err == nil {
		t.Error(".ob should not be written when assembly fails")
	}
}

// S6 — entry promotion.
func TestRunEntryPromotion(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "s6", "VAL: .data 42\n.entry VAL\n")

	outcome := Run(base)
	if !outcome.OK {
		t.Fatalf("assembly failed: %v", outcome.Errors.Strings())
	}

	lines := readObjectFile(t, base)
	want := []string{"0 1", "0000100 00002a"}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf(".ob =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}

	ent, err := os.ReadFile(base + ".ent")
	if err != nil {
		t.Fatalf("ReadFile .ent: %v", err)
	}
	if strings.TrimRight(string(ent), "\n") != "VAL 0000100" {
		t.Errorf(".ent = %q, want %q", ent, "VAL 0000100")
	}
}

// S4 equivalent — macro expansion feeding straight into the pipeline.
func TestRunMacroExpansion(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "s4", "mcro GREET\nmov r1, r2\nmcroend\nGREET\nGREET\nstop\n")

	outcome := Run(base)
	if !outcome.OK {
		t.Fatalf("assembly failed: %v", outcome.Errors.Strings())
	}
	lines := readObjectFile(t, base)
	if lines[0] != "3 0" {
		t.Errorf("header = %q, want \"3 0\" (two expanded mov + one stop)", lines[0])
	}
}

// P1 — duplicate labels across CODE/DATA/EXTERN/ENTRY are rejected.
func TestRunRejectsDuplicateLabel(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "dup", "A: .data 1\nA: .data 2\n")

	outcome := Run(base)
	if outcome.OK {
		t.Fatal("expected failure for a duplicate label")
	}
}

// P4 — DATA symbols are rebased to sit after the final code segment.
func TestRunRebasesDataSymbolsAfterCode(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "rebase", "stop\nVAL: .data 9\n")

	outcome := Run(base)
	if !outcome.OK {
		t.Fatalf("assembly failed: %v", outcome.Errors.Strings())
	}
	sym, ok := outcome.Symbols.LookupDefined("VAL")
	if !ok {
		t.Fatal("VAL should be defined")
	}
	if sym.Address != 101 {
		t.Errorf("VAL.Address = %d, want 101 (right after the one code word)", sym.Address)
	}
}

// P5 — an EXTERN symbol never gets an .ob row of its own; it only
// shows up in .ext, once per use site.
func TestRunExternOnlyAppearsInExtFile(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "extuse", ".extern FOO\nmov FOO, r1\nmov FOO, r2\nstop\n")

	outcome := Run(base)
	if !outcome.OK {
		t.Fatalf("assembly failed: %v", outcome.Errors.Strings())
	}

	ext, err := os.ReadFile(base + ".ext")
	if err != nil {
		t.Fatalf("ReadFile .ext: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(ext), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf(".ext should have one line per use site, got %v", lines)
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "FOO ") {
			t.Errorf("unexpected .ext line %q", l)
		}
	}

	ob, err := os.ReadFile(base + ".ob")
	if err != nil {
		t.Fatalf("ReadFile .ob: %v", err)
	}
	if strings.Contains(string(ob), "FOO") {
		t.Error(".ob should never reference a symbol name")
	}
}

// A label preceding ".extern" or ".entry" is always an error
// (original_source/first_pass.c falls through to "Unrecognized
// command" once label[0] != '\0'), never a silent label definition.
func TestRunLabelBeforeExternIsError(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "labelextern", "BAD: .extern FOO\n")

	outcome := Run(base)
	if outcome.OK {
		t.Fatal("expected failure for a label preceding .extern")
	}
}

func TestRunLabelBeforeEntryIsError(t *testing.T) {
	dir := t.TempDir()
	base := writeSourceFile(t, dir, "labelentry", "VAL: .data 1\nBAD: .entry VAL\n")

	outcome := Run(base)
	if outcome.OK {
		t.Fatal("expected failure for a label preceding .entry")
	}
}
