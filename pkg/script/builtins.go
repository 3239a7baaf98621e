package script

import (
	"fmt"
	"math"
	"math/rand"

	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"
)

// collector accumulates the points a script emits.
type collector struct {
	points []v2.Vec
}

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to
// zygomys:
//
//  1. `;` line comments become `//` comments, which is what zygomys
//     expects instead of the traditional Lisp semicolon.
//  2. Kebab-case identifiers become underscore form (zygomys reads a
//     hyphen as subtraction).
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/8)
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
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// alpha-alpha -> alpha_alpha, only when the hyphen sits between
		// identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
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

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

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

// toInt extracts a non-negative int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if n < 0 {
		return 0, fmt.Errorf("expected non-negative count, got %d", n)
	}
	return n, nil
}

// floats extracts exactly want numeric arguments, or between want and
// max when max > want.
func floats(name string, args []zygo.Sexp, want, max int) ([]float64, error) {
	if max < want {
		max = want
	}
	if len(args) < want || len(args) > max {
		return nil, fmt.Errorf("%s: expected %d to %d arguments, got %d", name, want, max, len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// registerBuiltins installs the point-emitting builtins into a zygomys
// environment. The builtins append to col during evaluation.
//
//	(point x y)                 one point
//	(ring n radius [cx cy])     n points evenly spaced on a circle
//	(grid nx ny spacing)        nx*ny lattice centered on the origin
//	(scatter n extent seed)     n seeded-random points in a square
func registerBuiltins(env *zygo.Zlisp, col *collector) {

	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floats("point", args, 2, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		col.points = append(col.points, v2.Vec{X: vals[0], Y: vals[1]})
		return zygo.SexpNull, nil
	})

	env.AddFunction("ring", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("ring: expected (ring n radius [cx cy])")
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ring: %w", err)
		}
		vals, err := floats("ring", args[1:], 1, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		radius := vals[0]
		var center v2.Vec
		if len(vals) == 3 {
			center = v2.Vec{X: vals[1], Y: vals[2]}
		}
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			col.points = append(col.points, center.Add(v2.Vec{
				X: radius * math.Cos(a),
				Y: radius * math.Sin(a),
			}))
		}
		return zygo.SexpNull, nil
	})

	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("grid: expected (grid nx ny spacing)")
		}
		nx, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: nx: %w", err)
		}
		ny, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: ny: %w", err)
		}
		spacing, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: spacing: %w", err)
		}
		ox := -spacing * float64(nx-1) / 2
		oy := -spacing * float64(ny-1) / 2
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				col.points = append(col.points, v2.Vec{
					X: ox + spacing*float64(i),
					Y: oy + spacing*float64(j),
				})
			}
		}
		return zygo.SexpNull, nil
	})

	env.AddFunction("scatter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("scatter: expected (scatter n extent seed)")
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scatter: %w", err)
		}
		extent, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scatter: extent: %w", err)
		}
		seed, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scatter: seed: %w", err)
		}
		rng := rand.New(rand.NewSource(int64(seed)))
		for i := 0; i < n; i++ {
			col.points = append(col.points, v2.Vec{
				X: (rng.Float64() - 0.5) * extent,
				Y: (rng.Float64() - 0.5) * extent,
			})
		}
		return zygo.SexpNull, nil
	})
}
