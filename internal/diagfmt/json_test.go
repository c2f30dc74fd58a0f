package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bigcalc/internal/diag"
	"bigcalc/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("input.txt", []byte("/ 10\n\n100\n\n0\n\n\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.NumDivideByZero, source.Span{File: fileID, Start: 11, End: 12}, "division by zero").
		WithNote(source.Span{File: fileID, Start: 0, End: 4}, "record starts here"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "NUM3001",
			Title:    "Division by zero",
			Message:  "division by zero",
			Location: LocationJSON{
				File: "input.txt", StartByte: 11, EndByte: 12,
				StartLine: 5, StartCol: 1, EndLine: 5, EndCol: 2,
			},
			Notes: []NoteJSON{{
				Message: "record starts here",
				Location: LocationJSON{
					File: "input.txt", StartByte: 0, EndByte: 4,
					StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5,
				},
			}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("JSON output mismatch (-want +got):\n%s", diff)
	}
}

// TestJSONWithoutPositions проверяет что line/col опускаются
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("input.txt", []byte("? 10\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.RecUnknownOp, source.Span{File: fileID, Start: 0, End: 1}, "unknown operation '?'").
		WithNote(source.Span{File: fileID}, "hidden"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename})
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Errorf("positions leaked: %+v", loc)
	}
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Error("notes must be omitted without IncludeNotes")
	}
}

func TestJSONMaxAndPathDiagnostics(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.NewPathError(diag.IOReadFailed, "/data/in/a.txt", "open failed"))
	bag.Add(diag.NewPathError(diag.IOReadFailed, "/data/in/b.txt", "open failed"))
	bag.Add(diag.NewPathError(diag.CfgParseFailed, "bigcalc.toml", "bad toml"))

	out := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{Max: 2, PathMode: PathModeBasename})
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("Max not applied: count=%d", out.Count)
	}
	if got := out.Diagnostics[1].Location.File; got != "b.txt" {
		t.Errorf("path diagnostic file = %q", got)
	}
}
