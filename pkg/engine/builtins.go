package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/geom"
	"github.com/chazu/universim/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source before zygomys sees it:
//
//  1. Keyword conversion: :len -> "__kw_len" (string literal), so keywords
//     need no global symbol that could clash with user variables.
//
//  2. Kebab-case to underscore: max-cubes -> max_cubes. zygomys reads a
//     hyphen inside an identifier as subtraction.
//
//  3. Lisp ; comments become zygomys // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpCube wraps a seed cube so scripts can bind and print it.
type sexpCube struct {
	c cube.Cube
}

func (c *sexpCube) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cube :at (vec3 %g %g %g) :len %g)", c.c.X(), c.c.Y(), c.c.Z(), c.c.Len())
}
func (c *sexpCube) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number. Floats are accepted when integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// They record declarations on p as the script runs.
//
// Source must go through preprocessSource first so that :keyword tokens
// arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *Program) {

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: geom.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (cube :at (vec3 0 0 0) :len 500)
	// (cube 0 0 0 500)
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		var (
			at     geom.Vec3
			length float64
			err    error
		)
		switch len(pa.positional) {
		case 0:
			if v, ok := pa.kw["at"]; ok {
				if at, err = toVec3(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("cube: at: %w", err)
				}
			}
			v, ok := pa.kw["len"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cube requires :len")
			}
			if length, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: len: %w", err)
			}
		case 4:
			var xyz [4]float64
			for i, a := range pa.positional {
				if xyz[i], err = toFloat64(a); err != nil {
					return zygo.SexpNull, fmt.Errorf("cube: argument %d: %w", i+1, err)
				}
			}
			at = geom.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
			length = xyz[3]
		default:
			return zygo.SexpNull, fmt.Errorf("cube takes :at/:len keywords or 4 positional arguments, got %d", len(pa.positional))
		}

		c, err := cube.New(at.X, at.Y, at.Z, length)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		p.Seeds = append(p.Seeds, c)
		return &sexpCube{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (subdivide) or (subdivide 2)
	// -----------------------------------------------------------------------
	env.AddFunction("subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n := 1
		switch len(args) {
		case 0:
		case 1:
			var err error
			if n, err = toInt(args[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
			}
			if n < 0 {
				return zygo.SexpNull, fmt.Errorf("subdivide: count must be >= 0, got %d", n)
			}
		default:
			return zygo.SexpNull, fmt.Errorf("subdivide takes at most 1 argument, got %d", len(args))
		}
		p.Generations += n
		return &zygo.SexpInt{Val: int64(p.Generations)}, nil
	})

	// -----------------------------------------------------------------------
	// (bias 10)
	// -----------------------------------------------------------------------
	env.AddFunction("bias", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("bias requires exactly 1 argument, got %d", len(args))
		}
		b, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bias: %w", err)
		}
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return zygo.SexpNull, fmt.Errorf("bias: must be finite")
		}
		p.Bias = &b
		return &zygo.SexpFloat{Val: b}, nil
	})

	// -----------------------------------------------------------------------
	// (limit :cubes 8000 :generations 3)
	// -----------------------------------------------------------------------
	env.AddFunction("limit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("limit takes only :cubes and :generations")
		}

		var lim scene.Limits
		if p.Limits != nil {
			lim = *p.Limits
		}
		for key, v := range pa.kw {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("limit: %s: %w", key, err)
			}
			if n < 0 {
				return zygo.SexpNull, fmt.Errorf("limit: %s must be >= 0, got %d", key, n)
			}
			switch key {
			case "cubes":
				lim.MaxCubes = n
			case "generations":
				lim.MaxGenerations = n
			default:
				return zygo.SexpNull, fmt.Errorf("limit: unknown keyword :%s", key)
			}
		}
		p.Limits = &lim
		return zygo.SexpNull, nil
	})
}
