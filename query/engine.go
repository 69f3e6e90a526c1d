// Package query exposes the orientation table and the time scale engine
// through a small expression language, so operators can probe a dataset
// from the command line without writing Go.
package query

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/orbitdet/eopkit/eop"
	"github.com/orbitdet/eopkit/timescale"
)

// Engine compiles and evaluates query expressions against one table
// snapshot. It is safe for concurrent use because the table is immutable.
type Engine struct {
	table     *eop.Table
	functions map[string]func(...interface{}) interface{}
	logger    zerolog.Logger
}

// NewEngine builds an engine over the given table.
func NewEngine(table *eop.Table, logger zerolog.Logger) *Engine {
	engine := &Engine{
		table:  table,
		logger: logger.With().Str("component", "query").Logger(),
	}
	engine.functions = map[string]func(...interface{}) interface{}{
		"ut1_utc":      engine.ut1UTC,
		"polar_motion": engine.polarMotion,
		"cip_offsets":  engine.cipOffsets,
		"lod":          engine.lod,
		"leap_seconds": engine.leapSeconds,
		"offset":       engine.offset,
		"mjd":          engine.mjd,
		"civil":        engine.civil,
	}
	return engine
}

// Compile parses an expression without evaluating it.
func (e *Engine) Compile(expression string) (*vm.Program, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := expr.Compile(trimmed, expr.Env(map[string]interface{}{}), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", trimmed, err)
	}
	return program, nil
}

// Eval compiles and runs an expression. Lookup failures inside the query
// functions surface as evaluation errors.
func (e *Engine) Eval(expression string) (interface{}, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	env := make(map[string]interface{}, len(e.functions)+2)
	for name, fn := range e.functions {
		env[name] = fn
	}
	env["arcsec_to_rad"] = eop.ArcsecToRad
	env["mjd_min"] = e.table.MinMJD()
	env["mjd_max"] = e.table.MaxMJD()
	result, err := vm.Run(program, env)
	if err != nil {
		e.logger.Debug().Err(err).Str("expression", expression).Msg("evaluation failed")
		return nil, err
	}
	return result, nil
}

func (e *Engine) ut1UTC(args ...interface{}) interface{} {
	mjd := oneNumber("ut1_utc", args)
	value, err := e.table.UT1UTC(mjd)
	if err != nil {
		panic(err)
	}
	return value
}

func (e *Engine) polarMotion(args ...interface{}) interface{} {
	mjd := oneNumber("polar_motion", args)
	x, y, err := e.table.PolarMotion(mjd)
	if err != nil {
		panic(err)
	}
	return map[string]interface{}{"x": x, "y": y}
}

func (e *Engine) cipOffsets(args ...interface{}) interface{} {
	mjd := oneNumber("cip_offsets", args)
	dx, dy, err := e.table.CIPOffsets(mjd)
	if err != nil {
		panic(err)
	}
	return map[string]interface{}{"dx": dx, "dy": dy}
}

func (e *Engine) lod(args ...interface{}) interface{} {
	mjd := oneNumber("lod", args)
	value, err := e.table.LOD(mjd)
	if err != nil {
		panic(err)
	}
	return value
}

func (e *Engine) leapSeconds(args ...interface{}) interface{} {
	return timescale.LeapSeconds(oneNumber("leap_seconds", args))
}

// offset(from, to, mjd) returns the destination-minus-source offset in
// seconds, e.g. offset("UTC", "TAI", 59569.5).
func (e *Engine) offset(args ...interface{}) interface{} {
	if len(args) != 3 {
		panic(fmt.Errorf("offset expects 3 arguments but got %d", len(args)))
	}
	from, err := timescale.ParseScale(asString("offset", 0, args[0]))
	if err != nil {
		panic(err)
	}
	to, err := timescale.ParseScale(asString("offset", 1, args[1]))
	if err != nil {
		panic(err)
	}
	mjd := asNumber("offset", 2, args[2])
	day := float64(int(mjd))
	value, err := timescale.Offset(e.table, from, to, day, mjd-day)
	if err != nil {
		panic(err)
	}
	return value
}

func (e *Engine) mjd(args ...interface{}) interface{} {
	if len(args) != 3 {
		panic(fmt.Errorf("mjd expects 3 arguments but got %d", len(args)))
	}
	year := int(asNumber("mjd", 0, args[0]))
	month := int(asNumber("mjd", 1, args[1]))
	day := int(asNumber("mjd", 2, args[2]))
	value, err := timescale.MJDFromCivil(year, month, day)
	if err != nil {
		panic(err)
	}
	return value
}

func (e *Engine) civil(args ...interface{}) interface{} {
	mjd := oneNumber("civil", args)
	year, month, day := timescale.CivilFromMJD(int(mjd))
	return map[string]interface{}{"year": year, "month": month, "day": day}
}

func oneNumber(name string, args []interface{}) float64 {
	if len(args) != 1 {
		panic(fmt.Errorf("%s expects 1 argument but got %d", name, len(args)))
	}
	return asNumber(name, 0, args[0])
}

func asNumber(name string, idx int, value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		panic(fmt.Errorf("%s: argument %d must be a number, got %T", name, idx+1, value))
	}
}

func asString(name string, idx int, value interface{}) string {
	s, ok := value.(string)
	if !ok {
		panic(fmt.Errorf("%s: argument %d must be a string, got %T", name, idx+1, value))
	}
	return s
}
