package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"bigcalc/internal/diag"
	"bigcalc/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/batches/input.txt", []byte("+ 10\n\n12x4\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.NumInvalidDigit, source.Span{File: fileID, Start: 8, End: 9}, "invalid digit character 'x'"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/batches/input.txt:3:3"},
		{"Relative path", PathModeRelative, "batches/input.txt:3:3"},
		{"Basename only", PathModeBasename, "input.txt:3:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "NUM3002", "invalid digit"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("in.txt", []byte("+ 10\n\n12x4\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.NumInvalidDigit, source.Span{File: fileID, Start: 8, End: 9}, "bad digit"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := "in.txt:3:3: ERROR NUM3002: bad digit\n" +
		"2 | \n" +
		"3 | 12x4\n" +
		"  |   ^\n"
	if got := buf.String(); got != want {
		t.Fatalf("Pretty output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("in.txt", []byte("＋ 99\n"))

	bag := diag.NewBag(1)
	// "99" после полноширинного плюса: префикс шириной 3 колонки
	bag.Add(diag.NewError(diag.RecBadBase, source.Span{File: fileID, Start: 4, End: 6}, "base 99"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := lines[len(lines)-1]; got != "  |    ^~" {
		t.Fatalf("underline = %q", got)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("in.txt", []byte("10 2\n1010\n"))

	d := diag.NewError(diag.RecMissingBlank, source.Span{File: fileID, Start: 5, End: 9}, "missing empty line").
		WithNote(source.Span{File: fileID, Start: 0, End: 4}, "correct format: <from_base> <to_base>")
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: in.txt:1:1: correct format") {
		t.Fatalf("expected note with location, got:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyPathOnly(t *testing.T) {
	bag := diag.NewBag(2)
	bag.Add(diag.NewPathError(diag.IOReadFailed, "missing.txt", "no such file"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{PathMode: PathModeBasename})
	if got := buf.String(); got != "missing.txt: ERROR IO1001: no such file\n" {
		t.Fatalf("got %q", got)
	}
}

func TestPrettyWidthClips(t *testing.T) {
	fs := source.NewFileSet()
	long := strings.Repeat("7", 60) + "9"
	fileID := fs.AddVirtual("in.txt", []byte(long+"\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.NumDigitOutOfRange, source.Span{File: fileID, Start: 60, End: 61}, "too big"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 20})
	if strings.Contains(buf.String(), long) {
		t.Fatalf("line was not clipped:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "…") {
		t.Fatalf("missing ellipsis:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewPathError(diag.IOWriteFailed, "out.txt", "denied"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, nil, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, nil, PrettyOpts{PathMode: PathModeBasename, Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("escape codes without Color")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("no escape codes with Color")
	}
}
