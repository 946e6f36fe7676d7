// Package engine evaluates universim scene scripts. A script is sandboxed
// zygomys Lisp that declares seed cubes and how many subdivision steps to
// apply:
//
//	(cube :at (vec3 0 0 0) :len 500)
//	(subdivide 2)
//
// Evaluation produces a Program; the caller builds and advances the scene.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Program is the result of evaluating a script.
type Program struct {
	Seeds       []cube.Cube
	Generations int
	// Bias overrides the subdivision bias when set by (bias n).
	Bias *float64
	// Limits is set by (limit ...); nil leaves the caller's limits alone.
	Limits *scene.Limits
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	// Timeout bounds a single evaluation. Zero means EvalTimeout.
	Timeout time.Duration
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{Timeout: EvalTimeout}
}

// Evaluate runs source and returns the declared Program.
//
// Return semantics:
//   - On success: returns program + nil errors + nil error
//   - On parse/eval failure: returns nil program + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Program, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	limit := e.Timeout
	e.mu.Unlock()
	if limit <= 0 {
		limit = EvalTimeout
	}

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{program: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, limit)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Program, []EvalError, error) {
	// Empty source is a valid script that declares nothing.
	if strings.TrimSpace(source) == "" {
		return &Program{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	p := &Program{}
	registerBuiltins(env, p)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
