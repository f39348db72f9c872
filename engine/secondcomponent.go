package engine

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/powerset"
)

// finishSecondComponent implements spec.md §4.6.4: processes every
// second-component state as its kind requires. Because each helper (
// reuseState/ps2State/bpState) appends new states to e.res as it discovers
// them, driving the loop off res.NumStates() (re-read every iteration)
// gives exactly the BFS-over-the-id-space ordering spec.md §5 requires.
func (e *Engine) finishSecondComponent() {
	for i := automaton.StateID(e.firstCompSize); int(i) < e.res.NumStates(); i++ {
		switch e.kindOf[i] {
		case kindReused:
			e.processReused(i)
		case kindPS2:
			e.processPS2(i)
		case kindBP:
			e.processBP(i)
		default:
			panic("engine: second-component state with unexpected kind")
		}
	}
}

// processReused implements the "Reused" dispatch: copy the source state's
// outgoing edges verbatim, preserving original acceptance.
func (e *Engine) processReused(x automaton.StateID) {
	s0 := e.new2old2[x]
	for _, edge := range e.src.Out(s0) {
		target := e.reuseState(edge.Dst)
		e.res.AddEdge(x, target, edge.Cond, edge.Acc)
	}
}

// sccFilterOf returns the SCC-aware intersection filter for a state subset,
// or nil if scc-aware is off. Returns (nil, true) if bscc_avoid marks the
// subset's SCC as avoided, meaning "refuse" (no successors at all).
func (e *Engine) sccFilterOf(ss []automaton.StateID) (filter *bitset.BitSet, refuse bool) {
	if !e.opts.SCCAware || len(ss) == 0 {
		return nil, false
	}
	scc := e.oracle.SCCOf(ss[0])
	if e.opts.wantsBsccAvoid() && e.oracle.Avoid(scc) {
		return nil, true
	}
	return e.pb.ToBitSet(e.oracle.StatesOf(scc)), false
}

// processPS2 implements the second-component powerset dispatch: every
// transition is Büchi-accepting (used only for inherently weak SCCs).
func (e *Engine) processPS2(x automaton.StateID) {
	ss := e.content2[x]
	filter, refuse := e.sccFilterOf(ss)
	if refuse {
		return
	}
	succs := e.pb.Successors(ss, powerset.NoMark, filter, false)
	for c, succSet := range succs {
		if len(succSet) == 0 {
			continue
		}
		target := e.ps2State(succSet)
		e.res.AddEdge(x, target, e.ix.LabelOf(c), automaton.Mark(0).With(0))
	}
}

// processBP implements the breakpoint-with-levels dispatch, spec.md
// §4.6.4's central algorithm.
func (e *Engine) processBP(x automaton.StateID) {
	bp := e.bpOf[x]
	k := e.src.NumSets
	filter, refuse := e.sccFilterOf(bp.R)
	if refuse {
		return
	}

	rPrime := e.pb.Successors(bp.R, powerset.NoMark, filter, false)
	bPrime := e.pb.Successors(bp.B, powerset.NoMark, filter, false)
	rPrimeAtLevel := e.pb.Successors(bp.R, bp.Level, filter, false)

	nc := e.ix.NumConds()
	for c := 0; c < nc; c++ {
		if len(rPrime[c]) == 0 {
			continue
		}
		bNext := union(bPrime[c], rPrimeAtLevel[c])
		level := bp.Level
		mark := automaton.Mark(0)

		if setEqual(bNext, rPrime[c]) {
			start := level
			for iter := 0; ; iter++ {
				level = (level + 1) % k
				mark = mark.With(0)
				levelSuccs := e.pb.Successors(bp.R, level, filter, false)
				bNext = levelSuccs[c]
				if !setEqual(bNext, rPrime[c]) {
					break
				}
				if !e.opts.SkipLevels {
					break
				}
				if level == start {
					break
				}
			}
			if setEqual(bNext, rPrime[c]) {
				bNext = nil
			}
		}

		target := e.bpState(BPState{R: rPrime[c], B: bNext, Level: level})
		e.res.AddEdge(x, target, e.ix.LabelOf(c), mark)
	}
}

func union(a, b []automaton.StateID) []automaton.StateID {
	seen := make(map[automaton.StateID]bool, len(a)+len(b))
	var out []automaton.StateID
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return sortedCopy(out)
}

func setEqual(a, b []automaton.StateID) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := sortedCopy(a), sortedCopy(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
