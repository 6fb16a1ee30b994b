package assemble

import (
	"bufio"
	"fmt"
	"os"

	"github.com/neta767/asm24/parser"
)

// WriteOutputs serializes r to "<name>.ob", and to "<name>.ent"/
// "<name>.ext" if there is anything to put in them (spec.md §6).
// Called only once both passes finish with no errors.
func WriteOutputs(name string, r *Result) error {
	if err := writeObjectFile(name+".ob", r); err != nil {
		return err
	}
	if r.Symbols.HasEntry() {
		if err := writeEntryFile(name+".ent", r); err != nil {
			return err
		}
	}
	if len(r.ExternUses) > 0 {
		if err := writeExternFile(name+".ext", r); err != nil {
			return err
		}
	}
	return nil
}

func writeObjectFile(path string, r *Result) error {
	f, err := os.Create(path) // #nosec G304 -- path built from the user-supplied input name
	if err != nil {
		return fmt.Errorf("can't create %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	codeLen := r.Code.Len()
	dataLen := r.Data.Len()
	fmt.Fprintf(w, "%d %d\n", codeLen, dataLen)
	for _, cell := range r.Code.Cells() {
		fmt.Fprintf(w, "%07d %06x\n", cell.Address, uint32(cell.Value))
	}
	for _, cell := range r.Data.Cells() {
		fmt.Fprintf(w, "%07d %06x\n", cell.Address, uint32(cell.Value))
	}
	return w.Flush()
}

func writeEntryFile(path string, r *Result) error {
	f, err := os.Create(path) // #nosec G304 -- path built from the user-supplied input name
	if err != nil {
		return fmt.Errorf("can't create %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, sym := range r.Symbols.OfKind(parser.ENTRY) {
		fmt.Fprintf(w, "%s %07d\n", sym.Name, sym.Address)
	}
	return w.Flush()
}

func writeExternFile(path string, r *Result) error {
	f, err := os.Create(path) // #nosec G304 -- path built from the user-supplied input name
	if err != nil {
		return fmt.Errorf("can't create %s", path)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, use := range r.ExternUses {
		fmt.Fprintf(w, "%s %07d\n", use.Name, use.Address)
	}
	return w.Flush()
}
