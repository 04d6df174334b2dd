package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	logger := GetLogger("[test] ")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	logger.Println("hello")
	want := regexp.MustCompile(`^\d{4}/\d\d/\d\d \d\d:\d\d:\d\d\.\d{6} \[test\] hello\n$`)
	if !want.MatchString(buf.String()) {
		t.Errorf("got log %q, want a timestamp followed by %q", buf.String(), "[test] hello")
	}
}

func TestSetOutputFile(t *testing.T) {
	logger := GetLogger("[file] ")
	fname := filepath.Join(t.TempDir(), "log")
	err := SetOutputFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	logger.Println("to file")
	SetOutputFile("")
	logger.Println("discarded")

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[file] to file") || strings.Contains(string(data), "discarded") {
		t.Errorf("got log file %q", data)
	}
}
