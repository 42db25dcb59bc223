package format

import (
	"context"
	"testing"

	"github.com/riey/kes/compiler"
	"github.com/riey/kes/interner"
	"github.com/riey/kes/parser"
	"github.com/riey/kes/vm"
)

func TestSourceAssignSimple(t *testing.T) {
	got, err := Source("$1=2;")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	if want := "$1 = 2;\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceParenIsPreserved(t *testing.T) {
	got, err := Source("1*(2+3);")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	if want := "1 * (2 + 3);\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceIfElseIfElse(t *testing.T) {
	got, err := Source("만약1{123;}혹은2{456;}그외{789;}")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	want := "\n만약 1 {\n    123;\n} 혹은 2 {\n    456;\n} 그외 {\n    789;\n}\n\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceEndOfLineCommentAttachesToNextStatement(t *testing.T) {
	got, err := Source("$1=2;#12\n$2=3;")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	want := "$1 = 2;\n#12\n$2 = 3;\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceCommentsBeforeBlockStatement(t *testing.T) {
	got, err := Source("#12\n$1=2;\n#123\n만약1+2{123;}@!456;")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	want := "#12\n$1 = 2;\n\n#123\n만약 1 + 2 {\n    123;\n}\n\n@!456;\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceCommentInsideBlockPrintsBeforeClosingBrace(t *testing.T) {
	got, err := Source("만약1{123;\n#comment\n#comment2\n}혹은2{456;}그외{789;}")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	want := "\n만약 1 {\n    123;\n    #comment\n    #comment2\n} 혹은 2 {\n    456;\n} 그외 {\n    789;\n}\n\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourcePrintWaitPrefix(t *testing.T) {
	got, err := Source("@!456;")
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	if want := "@!456;\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceIsIdempotent(t *testing.T) {
	sources := []string{
		"$1=2;",
		"만약1{123;}혹은2{456;}그외{789;}",
		"#12\n$1=2;\n#123\n만약1+2{123;}@!456;",
		"반복 1 { @@1; } 2;",
		"1*(2+3);",
	}
	for _, src := range sources {
		once, err := Source(src)
		if err != nil {
			t.Fatalf("Source(%q) failed: %v", src, err)
		}
		twice, err := Source(once)
		if err != nil {
			t.Fatalf("Source(once) failed for %q: %v", src, err)
		}
		if once != twice {
			t.Fatalf("not idempotent for %q:\nonce:  %q\ntwice: %q", src, once, twice)
		}
	}
}

// TestSourceSemanticPreservation runs both the original and the
// reformatted source through identical recording builtins and checks the
// observable side effects match exactly.
func TestSourceSemanticPreservation(t *testing.T) {
	sources := []string{
		"$1=2;만약1+2{@@123;}@!456;",
		"$0 = 1; 반복 $0 < 10 { @@$0; $0 = $0 + 1; } @!$0;",
		"더하기(1, 2, '3');",
	}
	for _, src := range sources {
		formatted, err := Source(src)
		if err != nil {
			t.Fatalf("Source(%q) failed: %v", src, err)
		}

		origText, err := runRecording(t, src)
		if err != nil {
			t.Fatalf("running original %q failed: %v", src, err)
		}
		formattedText, err := runRecording(t, formatted)
		if err != nil {
			t.Fatalf("running formatted %q failed: %v", src, err)
		}
		if origText != formattedText {
			t.Fatalf("observable effects differ for %q:\noriginal:  %q\nformatted: %q", src, origText, formattedText)
		}
	}
}

func runRecording(t *testing.T, src string) (string, error) {
	t.Helper()
	in := interner.New()
	stmts, err := parser.Parse(src, in)
	if err != nil {
		return "", err
	}
	prog, err := compiler.Compile(stmts, in)
	if err != nil {
		return "", err
	}
	c := vm.NewContext(prog)
	rec := &vm.RecordingBuiltin{}
	if err := c.Run(context.Background(), rec); err != nil {
		return "", err
	}
	return rec.String(), nil
}
