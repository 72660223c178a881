package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"swiftconcur/internal/diag"
	"swiftconcur/internal/ident"
)

func collect(t *testing.T, input string, kind Kind) ([]diag.RawDiagnostic, *Extractor) {
	t.Helper()
	ex, err := New(strings.NewReader(input), kind)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out []diag.RawDiagnostic
	for d := range ex.All() {
		out = append(out, d)
	}
	if err := ex.Err(); err != nil {
		t.Fatalf("unexpected extraction error: %v", err)
	}
	return out, ex
}

func TestTextLog(t *testing.T) {
	input := strings.Join([]string{
		"CompileSwift normal arm64 /src/A.swift",
		"/src/A.swift:10:5: warning: actor-isolated property 'x' can not be referenced from a non-isolated context",
		"/src/B.swift:3: warning: type 'Foo' does not conform to the 'Sendable' protocol",
		"/src/C.m:4:1: warning: not swift",
		"/src/D.swift:7:2: error: something broke",
		"    let x = 1 // warning: in a comment",
		"** BUILD SUCCEEDED ** [12.345 sec]",
	}, "\r\n")

	got, ex := collect(t, input, KindAuto)
	if ex.Kind() != KindBuildLogText {
		t.Fatalf("expected text kind, got %v", ex.Kind())
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %+v", len(got), got)
	}
	if got[0].FilePath != "/src/A.swift" || got[0].Line != 10 || got[0].Column != 5 {
		t.Fatalf("unexpected first location %+v", got[0])
	}
	if got[1].Column != 0 || got[1].Line != 3 {
		t.Fatalf("column must be optional: %+v", got[1])
	}
	if strings.HasSuffix(got[1].Message, "\r") {
		t.Fatalf("CR not stripped from %q", got[1].Message)
	}
	secs, ok := ex.BuildTime()
	if !ok || secs != 12.345 {
		t.Fatalf("expected build time 12.345, got %v %v", secs, ok)
	}
}

func TestTextIndentedWarning(t *testing.T) {
	const msg = "actor-isolated property 'x' can not be referenced from a non-isolated context"
	plain, _ := collect(t, "/p/A.swift:10:2: warning: "+msg+"\n", KindBuildLogText)
	indented, _ := collect(t, "    /p/A.swift:10:2: warning: "+msg+"\n\t/p/A.swift:11:1: warning: "+msg+"\n", KindBuildLogText)
	if len(plain) != 1 || len(indented) != 2 {
		t.Fatalf("expected 1 and 2 diagnostics, got %+v and %+v", plain, indented)
	}
	for _, d := range indented {
		if d.FilePath != "/p/A.swift" {
			t.Fatalf("leading whitespace leaked into path %q", d.FilePath)
		}
	}
	if d := indented[1]; d.Line != 11 || d.Column != 1 {
		t.Fatalf("unexpected tab-indented location %+v", d)
	}
	a := ident.Of(plain[0].FilePath, plain[0].Line, plain[0].Message)
	b := ident.Of(indented[0].FilePath, indented[0].Line, indented[0].Message)
	if a != b {
		t.Fatalf("indentation changed the id: %s vs %s", a, b)
	}
}

func TestTextSkipsOverlongLines(t *testing.T) {
	long := "/src/A.swift:1:1: warning: " + strings.Repeat("x", MaxLineBytes)
	input := long + "\n/src/B.swift:2:1: warning: data race\n"
	got, ex := collect(t, input, KindBuildLogText)
	if len(got) != 1 || got[0].FilePath != "/src/B.swift" {
		t.Fatalf("expected only the short line, got %+v", got)
	}
	if ex.Stats().LongLines != 1 {
		t.Fatalf("expected 1 long line, got %d", ex.Stats().LongLines)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, kind := range []Kind{KindAuto, KindXCResultJSON, KindBuildLogText} {
		got, _ := collect(t, "", kind)
		if len(got) != 0 {
			t.Fatalf("%v: expected no diagnostics, got %d", kind, len(got))
		}
	}
}

const xcresultLegacy = `{
  "_type": {"_name": "ActionsInvocationRecord"},
  "issues": {
    "_type": {"_name": "ResultIssueSummaries"},
    "warningSummaries": {
      "_type": {"_name": "Array"},
      "_values": [
        {
          "_type": {"_name": "IssueSummary"},
          "documentLocationInCreatingWorkspace": {
            "_type": {"_name": "DocumentLocation"},
            "url": {"_type": {"_name": "String"}, "_value": "file:///Users/dev/App/Model.swift#CharacterRangeLen=0&EndingLineNumber=41&StartingColumnNumber=9&StartingLineNumber=41"}
          },
          "issueType": {"_type": {"_name": "String"}, "_value": "Swift Compiler Warning"},
          "message": {"_type": {"_name": "String"}, "_value": "capture of 'self' with non-sendable type 'Model'"}
        },
        {
          "_type": {"_name": "IssueSummary"},
          "issueType": {"_type": {"_name": "String"}, "_value": "Swift Compiler Warning"},
          "message": {"_type": {"_name": "String"}, "_value": "no location here"}
        }
      ]
    }
  }
}`

func TestXCResultLegacy(t *testing.T) {
	got, ex := collect(t, xcresultLegacy, KindAuto)
	if ex.Kind() != KindXCResultJSON {
		t.Fatalf("expected JSON kind, got %v", ex.Kind())
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %+v", got)
	}
	d := got[0]
	if d.FilePath != "/Users/dev/App/Model.swift" || d.Line != 41 || d.Column != 9 {
		t.Fatalf("unexpected location %+v", d)
	}
	if d.Message != "capture of 'self' with non-sendable type 'Model'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if ex.Stats().Skipped != 1 {
		t.Fatalf("expected the location-less record to be skipped, got %d", ex.Stats().Skipped)
	}
}

func TestXcodebuildRecordStream(t *testing.T) {
	input := `{"type":"warning","message":"data race on x","file":"Sources/A.swift","line":12,"column":4}
{"type":"error","message":"broken","file":"Sources/A.swift","line":13}
{"type":"warning","message":"actor-isolated var 'y' cannot be mutated","filePath":"Sources/B.swift","lineNumber":"7","context":{"before":["a"],"line":"b","after":["c"]}}
`
	got, _ := collect(t, input, KindXcodebuildJSON)
	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", got)
	}
	if got[1].Line != 7 || got[1].Context == nil || got[1].Context.Line != "b" {
		t.Fatalf("unexpected second record %+v", got[1])
	}
}

func TestRecordWithoutLineKeepsLineZero(t *testing.T) {
	input := `{"type":"warning","message":"data race on x","file":"Sources/A.swift"}
{"type":"warning","message":"data race on y","file":"Sources/A.swift","line":-3}
{"type":"warning","message":"no file"}
`
	got, ex := collect(t, input, KindXcodebuildJSON)
	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", got)
	}
	for _, d := range got {
		if d.Line != 0 || d.FilePath != "Sources/A.swift" {
			t.Fatalf("expected line 0 in Sources/A.swift, got %+v", d)
		}
	}
	if ex.Stats().Skipped != 1 {
		t.Fatalf("only the record without a file should be skipped, got %d", ex.Stats().Skipped)
	}
}

func TestOwnReportReingest(t *testing.T) {
	input := `{"warnings":[{"id":"abc","warning_type":"data_race","severity":"critical","file_path":"A.swift","line_number":3,"column_number":null,"message":"data race","code_context":{"before":["x"],"line":"y","after":[]},"suggested_fix":null}],"total_count":1,"build_time_seconds":4.5}`
	got, ex := collect(t, input, KindAuto)
	if len(got) != 1 || got[0].FilePath != "A.swift" || got[0].Line != 3 {
		t.Fatalf("unexpected diagnostics %+v", got)
	}
	if secs, ok := ex.BuildTime(); !ok || secs != 4.5 {
		t.Fatalf("expected build time 4.5, got %v %v", secs, ok)
	}
}

func TestMalformedJSON(t *testing.T) {
	cases := map[string]string{
		"bad token": `{"issues": [1, 2,, 3]}`,
		"truncated": `{"issues": {"warningSummaries": [`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			ex, err := New(strings.NewReader(input), KindXCResultJSON)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for range ex.All() {
			}
			var se *SyntaxError
			if !errors.As(ex.Err(), &se) {
				t.Fatalf("expected SyntaxError, got %v", ex.Err())
			}
			if se.Offset <= 0 {
				t.Fatalf("expected a byte offset, got %d", se.Offset)
			}
		})
	}
}

func TestJSONDepthLimit(t *testing.T) {
	input := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	ex, err := New(strings.NewReader(input), KindXCResultJSON)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for range ex.All() {
	}
	var se *SyntaxError
	if !errors.As(ex.Err(), &se) {
		t.Fatalf("expected depth error, got %v", ex.Err())
	}
}

func TestEarlyStopAndSingleUse(t *testing.T) {
	input := "a.swift:1:1: warning: one\nb.swift:2:1: warning: two\n"
	ex, err := New(strings.NewReader(input), KindAuto)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n := 0
	for range ex.All() {
		n++
		break
	}
	if n != 1 || ex.Err() != nil {
		t.Fatalf("expected clean early stop, got n=%d err=%v", n, ex.Err())
	}
	for range ex.All() {
		t.Fatal("a second iteration must yield nothing")
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"auto", "xcresult-json", "xcodebuild-json", "build-log-text"} {
		k, err := ParseKind(name)
		if err != nil || k.String() != name {
			t.Fatalf("ParseKind(%q) = %v, %v", name, k, err)
		}
	}
	if _, err := ParseKind("yaml"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestBOMIsStripped(t *testing.T) {
	got, ex := collect(t, "\xEF\xBB\xBF{\"type\":\"warning\",\"message\":\"m\",\"file\":\"A.swift\",\"line\":1}", KindAuto)
	if ex.Kind() != KindXCResultJSON || len(got) != 1 {
		t.Fatalf("BOM must not hide JSON input: kind=%v got=%+v", ex.Kind(), got)
	}
}

// lineSource generates a large build log without holding it in memory.
type lineSource struct {
	n, total int
	pending  []byte
}

func (s *lineSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		if s.n >= s.total {
			return 0, io.EOF
		}
		if s.n%2 == 0 {
			s.pending = []byte("CompileSwift normal arm64 some/unrelated/line/that/pads/the/log.swift (in target 'App')\n")
		} else {
			s.pending = fmt.Appendf(nil, "/src/F%d.swift:%d:3: warning: data race in closure %d\n", s.n%97, s.n, s.n)
		}
		s.n++
	}
	c := copy(p, s.pending)
	s.pending = s.pending[c:]
	return c, nil
}

func TestLargeLogStreams(t *testing.T) {
	const warnings = 50000
	ex, err := New(&lineSource{total: warnings * 2}, KindAuto)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	count := 0
	for range ex.All() {
		count++
	}
	if err := ex.Err(); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if count != warnings {
		t.Fatalf("expected %d diagnostics, got %d", warnings, count)
	}
}
