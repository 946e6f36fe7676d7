package engine

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	for _, src := range []string{"", "   \n\t  \n  "} {
		p, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if p == nil {
			t.Fatal("expected non-nil program")
		}
		if len(p.Seeds) != 0 || p.Generations != 0 {
			t.Errorf("expected empty program, got %+v", p)
		}
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine()

	// Plain Lisp declares nothing.
	p, evalErrs, err := eng.Evaluate("(def x 10)\n(def y 20)\n(+ x y)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if p == nil {
		t.Fatal("expected non-nil program")
	}
	if len(p.Seeds) != 0 {
		t.Errorf("expected no seeds, got %d", len(p.Seeds))
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	p, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil program on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	p, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil program on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	src := "(cube :at (vec3 1 2 3) :len 27)\n(subdivide 2)"

	first, _, err := eng.Evaluate(src)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	for i := 0; i < 5; i++ {
		p, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if len(p.Seeds) != 1 || !p.Seeds[0].Equal(first.Seeds[0]) {
			t.Errorf("iteration %d: seeds differ: %v vs %v", i, p.Seeds, first.Seeds)
		}
		if p.Generations != first.Generations {
			t.Errorf("iteration %d: generations = %d, want %d", i, p.Generations, first.Generations)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // never sends

	start := time.Now()
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen, 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
	if took := time.Since(start); took > 2*time.Second {
		t.Errorf("timeout took %s", took)
	}
}

func TestEngineTimeoutDefault(t *testing.T) {
	eng := &Engine{}
	p, _, err := eng.Evaluate("(subdivide)")
	if err != nil {
		t.Fatalf("zero Timeout should fall back to EvalTimeout: %v", err)
	}
	if p.Generations != 1 {
		t.Errorf("generations = %d, want 1", p.Generations)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{program: &Program{}}

	// Generation 1 is stale.
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen, EvalTimeout)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: cube: invalid cube length",
			wantLine: 3,
			wantMsg:  "invalid cube length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
