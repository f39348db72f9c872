package driver

import (
	"errors"
	"fmt"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/cutdet"
	"github.com/seminaut/seminaut/engine"
	"github.com/seminaut/seminaut/ncsb"
)

// ErrDictMismatch is the driver-level "dictionary-mismatch error" (spec.md
// §7): the source and result automata disagree on their AP dictionary. In
// this implementation APs are plain name slices shared by value rather than
// a process-global BDD dictionary handle, so the check degenerates to "do
// the AP lists agree", but the error taxonomy spec.md §7 names is preserved
// as its own sentinel and surfaced the same way.
var ErrDictMismatch = errors.New("driver: source and result automata have incompatible AP dictionaries")

// Complementer selects the NCSB variant (spec.md §6 `--complement[=best|
// spot|pldi]`). Only one NCSB implementation exists in this repo (the PLDI-
// derived construction in package ncsb); "best" and "spot" are accepted as
// synonyms for it rather than rejected, since this tool has no alternate
// complementation engine to dispatch to — documented in DESIGN.md.
type Complementer string

const (
	ComplementNone Complementer = ""
	ComplementBest Complementer = "best"
	ComplementSpot Complementer = "spot"
	ComplementPLDI Complementer = "pldi"
)

// Options collects every CLI-facing knob spec.md §6 names that is not
// itself an engine.Options field.
type Options struct {
	Engine engine.Options

	OutputShape OutputShape

	ViaTGBA bool
	ViaTBA  bool
	ViaSBA  bool

	Preprocess      bool
	Postprocess     bool
	PostprocessComp bool

	IsCD       bool
	Highlight  bool
	Complement Complementer
}

// DefaultOptions returns the engine's defaults (semi-deterministic), TGBA
// output and all three "via" jobs on. Unlike the CLI, whose defaults turn
// pre- and post-processing on, it leaves Preprocess, Postprocess and
// PostprocessComp off and sets no complementation.
func DefaultOptions() Options {
	return Options{
		Engine:      engine.DefaultOptions(),
		OutputShape: TGBA,
		ViaTGBA:     true,
		ViaTBA:      true,
		ViaSBA:      true,
	}
}

// Result is the outcome of running the driver over a single input
// automaton.
type Result struct {
	Automaton *automaton.Automaton
	Highlight *engine.Highlight
	// IsCutDeterministic is populated only when opts.IsCD is set: the
	// --is-cd check short-circuits the transformation entirely.
	IsCutDeterministic *bool
}

// Run executes the driver pipeline over one parsed source automaton:
// optional preprocess, strategy selection across the requested "via"
// variants, the two-component engine, optional NCSB complementation,
// optional postprocess, and output-shape conversion.
func Run(src *automaton.Automaton, opts Options) (Result, error) {
	if opts.IsCD {
		ok := cutdet.IsCutDeterministic(src)
		return Result{IsCutDeterministic: &ok}, nil
	}

	in := src
	if opts.Preprocess {
		in = Simplify(in)
	}

	variants := candidateVariants(in, opts)
	if len(variants) == 0 {
		return Result{}, fmt.Errorf("driver: no via-* strategy selected")
	}

	var best *automaton.Automaton
	var bestEngine *engine.Engine
	for _, v := range variants {
		e, err := buildEngine(v, opts.Engine)
		if err != nil {
			return Result{}, err
		}
		res := e.Result()
		if best == nil || res.NumStates() < best.NumStates() {
			best = res
			bestEngine = e
		}
	}

	if err := checkDictionary(src, best); err != nil {
		return Result{}, err
	}

	out := best
	if opts.Complement != ComplementNone {
		comp, err := ncsb.Complement(out)
		if err != nil {
			return Result{}, err
		}
		out = comp
	}

	if opts.Postprocess || (opts.Complement != ComplementNone && opts.PostprocessComp) {
		out = Simplify(out)
	}

	out = ApplyOutputShape(out, opts.OutputShape)

	result := Result{Automaton: out}
	if opts.Highlight && bestEngine != nil && out == best {
		h := bestEngine.ComputeHighlight()
		result.Highlight = &h
	}
	return result, nil
}

func candidateVariants(src *automaton.Automaton, opts Options) []*automaton.Automaton {
	var variants []*automaton.Automaton
	if opts.ViaTGBA {
		variants = append(variants, src)
	}
	if opts.ViaTBA {
		variants = append(variants, Degeneralize(src))
	}
	if opts.ViaSBA {
		variants = append(variants, ToStateBased(src))
	}
	return variants
}

// buildEngine runs engine.BuildEngine, recovering from the engine's
// panic-based invariant-violation signalling (spec.md §4.6.6/§7: "Engine
// invariant violation... these are programming errors; they abort
// (fail-stop)") and re-surfacing it as a driver-level error so a CLI batch
// run can still report it and move to the next input rather than crash the
// whole process.
func buildEngine(src *automaton.Automaton, opts engine.Options) (e *engine.Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = fmt.Errorf("driver: engine invariant violation: %w", asErr)
				return
			}
			err = fmt.Errorf("driver: engine invariant violation: %v", r)
		}
	}()
	return engine.BuildEngine(src, opts)
}

func checkDictionary(a, b *automaton.Automaton) error {
	if len(a.AP) == 0 || len(b.AP) == 0 {
		return nil
	}
	if len(b.AP) < len(a.AP) {
		return ErrDictMismatch
	}
	for i, ap := range a.AP {
		if b.AP[i] != ap {
			return ErrDictMismatch
		}
	}
	return nil
}
