package sys

import (
	"os"
	"strings"
	"testing"
)

func TestIsATTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sys")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsATTY(f) {
		t.Errorf("IsATTY of a regular file = true")
	}
	if got := Columns(f, 72); got != 72 {
		t.Errorf("Columns of a regular file = %d, want 72", got)
	}
}

func TestDumpStack(t *testing.T) {
	if s := DumpStack(); !strings.Contains(s, "TestDumpStack") {
		t.Errorf("DumpStack does not contain the current function:\n%s", s)
	}
}
