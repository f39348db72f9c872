// Package ncsb implements the NCSB complementation of a semi-deterministic
// Büchi automaton (spec.md §4.7), labelling each source state N
// ("non-deterministic part"), C ("to be checked"), S ("safe"), CB
// ("checked, in current breakpoint") or M ("absent"), and expanding
// macro-states letter by letter with a work queue — the same worklist/
// macro-state-to-id map shape the engine's own breakpoint construction
// uses (engine.Engine.bpState), applied here to a 5-valued label instead of
// the (R, B, level) triple.
//
// Both of §4.7's branch points — a CB-state's successor reached via an
// accepting edge (branch into CB' or S'), and the PLDI'18 branch-on-empty-
// breakpoint optimization (promote-all-to-CB, or promote-non-accepting-to-S
// instead) — are implemented as one extra candidate macro-state per step
// rather than the full per-state combinatorial branch set the original
// explores; see DESIGN.md for why that narrower scope was kept.
package ncsb

import (
	"sort"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/minterm"
	"github.com/seminaut/seminaut/sccoracle"
)

type label byte

const (
	labelM label = iota
	labelN
	labelC
	labelCB
	labelS
)

// priority orders labels so merges never silently downgrade a more
// specific classification (S/CB) to a weaker one (N/C) when two source
// rules disagree about a single destination state in the same step.
var priority = map[label]int{labelM: 0, labelN: 1, labelC: 2, labelCB: 3, labelS: 4}

type macro map[automaton.StateID]label

func (m macro) clone() macro {
	out := make(macro, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func setLabel(m macro, s automaton.StateID, l label) {
	if cur, ok := m[s]; !ok || priority[l] > priority[cur] {
		m[s] = l
	}
}

func key(m macro) string {
	type pair struct {
		s automaton.StateID
		l label
	}
	pairs := make([]pair, 0, len(m))
	for s, l := range m {
		pairs = append(pairs, pair{s, l})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].s < pairs[j].s })
	b := make([]byte, 0, len(pairs)*5)
	for _, p := range pairs {
		b = append(b, byte(p.s), byte(p.s>>8), byte(p.s>>16), byte(p.s>>24), byte(p.l))
	}
	return string(b)
}

type complementer struct {
	src        *automaton.Automaton
	ix         *minterm.Indexer
	isDet      []bool
	isAccepter []bool
}

func isFullyAccepting(aut *automaton.Automaton, s automaton.StateID) bool {
	edges := aut.Out(s)
	if len(edges) == 0 {
		return true
	}
	for _, e := range edges {
		if !e.Acc.Has(0) {
			return false
		}
	}
	return true
}

// Complement consumes a semi-deterministic Büchi automaton and produces its
// complement via the NCSB subset construction.
func Complement(src *automaton.Automaton) (*automaton.Automaton, error) {
	ix, err := minterm.New(len(src.AP))
	if err != nil {
		return nil, err
	}
	oracle := sccoracle.Build(src)

	c := &complementer{
		src:        src,
		ix:         ix,
		isDet:      make([]bool, src.NumStates()),
		isAccepter: make([]bool, src.NumStates()),
	}
	for s := 0; s < src.NumStates(); s++ {
		sid := automaton.StateID(s)
		c.isDet[s] = oracle.IsDeterministicSCC(oracle.SCCOf(sid), false)
		c.isAccepter[s] = isFullyAccepting(src, sid)
	}

	res := automaton.NewAutomaton(src.AP, 1, automaton.Buchi)
	ids := make(map[string]automaton.StateID)
	var order []macro

	stateOf := func(m macro) automaton.StateID {
		k := key(m)
		if id, ok := ids[k]; ok {
			return id
		}
		id := res.AddState()
		ids[k] = id
		order = append(order, m)
		return id
	}

	init := macro{src.Init: labelN}
	initID := stateOf(init)
	res.SetInit(initID)

	for i := 0; i < len(order); i++ {
		from := automaton.StateID(i)
		ms := order[i]
		for cIdx := 0; cIdx < ix.NumConds(); cIdx++ {
			label := ix.LabelOf(cIdx)
			for _, cand := range c.step(ms, label) {
				target := stateOf(cand.m)
				res.AddEdge(from, target, label, cand.mark)
			}
		}
	}

	res.MergeParallelEdges()
	return res, nil
}

type candidate struct {
	m    macro
	mark automaton.Mark
}

// step computes every candidate successor macro-state (and its acceptance
// mark) for ms under the given minterm label, per spec.md §4.7's rules.
func (c *complementer) step(ms macro, cond automaton.Label) []candidate {
	next := make(macro)
	forbidden := false
	var cbAccDst []automaton.StateID

	for s, lab := range ms {
		var matches []automaton.Edge
		for _, e := range c.src.Out(s) {
			if !automaton.Disjoint(e.Cond, cond) {
				matches = append(matches, e)
			}
		}

		switch lab {
		case labelS:
			for _, e := range matches {
				if e.Acc.Has(0) {
					forbidden = true
					continue
				}
				setLabel(next, e.Dst, labelS)
			}
		case labelC:
			for _, e := range matches {
				setLabel(next, e.Dst, labelC)
			}
		case labelN:
			for _, e := range matches {
				setLabel(next, e.Dst, labelN)
				if c.isDet[e.Dst] {
					setLabel(next, e.Dst, labelC)
				}
			}
		case labelCB:
			if len(matches) == 0 && !c.isAccepter[s] {
				forbidden = true
				continue
			}
			for _, e := range matches {
				setLabel(next, e.Dst, labelCB)
				if e.Acc.Has(0) {
					cbAccDst = append(cbAccDst, e.Dst)
				}
			}
		case labelM:
			// absent: contributes nothing.
		}
	}

	if forbidden {
		return nil
	}

	hasCB := false
	for _, l := range next {
		if l == labelCB {
			hasCB = true
			break
		}
	}
	if hasCB {
		// A CB-state's successor reached via an accepting edge branches: one
		// copy keeps it in CB', another sends it to S' instead, unless the
		// successor is itself fully-accepting (then S' would be unsound,
		// since escaping the breakpoint there could hide a rejecting run).
		altCB := next.clone()
		altDiffers := false
		for _, dst := range cbAccDst {
			if altCB[dst] != labelCB || c.isAccepter[dst] {
				continue
			}
			altCB[dst] = labelS
			altDiffers = true
		}
		out := []candidate{{m: next, mark: 0}}
		if altDiffers {
			out = append(out, candidate{m: altCB, mark: 0})
		}
		return out
	}

	// B' is empty: promote every C-state to CB (PLDI: non-accepting
	// promotions may alternatively land in S, producing a second branch).
	promoted := next.clone()
	alt := next.clone()
	altDiffers := false
	for dst, l := range next {
		if l != labelC {
			continue
		}
		promoted[dst] = labelCB
		if c.isAccepter[dst] {
			alt[dst] = labelCB
		} else {
			alt[dst] = labelS
			altDiffers = true
		}
	}
	mark := automaton.Mark(0).With(0)
	out := []candidate{{m: promoted, mark: mark}}
	if altDiffers {
		out = append(out, candidate{m: alt, mark: mark})
	}
	return out
}
