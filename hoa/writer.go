package hoa

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/seminaut/seminaut/automaton"
)

// Write serializes aut in HOA text format.
func Write(w io.Writer, aut *automaton.Automaton) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "HOA: v1")
	fmt.Fprintln(bw, "tool: \"seminaut\"")
	fmt.Fprintf(bw, "States: %d\n", aut.NumStates())
	fmt.Fprintf(bw, "Start: %d\n", aut.Init)
	fmt.Fprintf(bw, "AP: %d", len(aut.AP))
	for _, a := range aut.AP {
		fmt.Fprintf(bw, " %q", a)
	}
	fmt.Fprintln(bw)

	switch aut.Kind {
	case automaton.Buchi:
		fmt.Fprintln(bw, "Acceptance: 1 Inf(0)")
		fmt.Fprintln(bw, "acc-name: Buchi")
	default:
		k := aut.NumSets
		fmt.Fprintf(bw, "Acceptance: %d ", k)
		for i := 0; i < k; i++ {
			if i > 0 {
				fmt.Fprint(bw, "&")
			}
			fmt.Fprintf(bw, "Inf(%d)", i)
		}
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "acc-name: generalized-Buchi %d\n", k)
	}
	fmt.Fprintln(bw, "properties: trans-labels explicit-labels state-acc trans-acc")
	fmt.Fprintln(bw, "--BODY--")

	for s := 0; s < aut.NumStates(); s++ {
		sid := automaton.StateID(s)
		if name := aut.Names[sid]; name != "" {
			fmt.Fprintf(bw, "State: %d \"%s\"\n", sid, name)
		} else {
			fmt.Fprintf(bw, "State: %d\n", sid)
		}
		edges := append([]automaton.Edge(nil), aut.Out(sid)...)
		sort.Slice(edges, func(i, j int) bool { return edges[i].Dst < edges[j].Dst })
		for _, e := range edges {
			fmt.Fprintf(bw, "[%s] %d", writeLabel(e.Cond, len(aut.AP)), e.Dst)
			if marks := writeMarks(e.Acc, aut.NumSets); marks != "" {
				fmt.Fprintf(bw, " {%s}", marks)
			}
			fmt.Fprintln(bw)
		}
	}
	fmt.Fprintln(bw, "--END--")
	return bw.Flush()
}

func writeMarks(m automaton.Mark, numSets int) string {
	s := ""
	for i := 0; i < numSets; i++ {
		if m.Has(i) {
			if s != "" {
				s += " "
			}
			s += fmt.Sprintf("%d", i)
		}
	}
	return s
}

// writeLabel renders a Label back to HOA boolean-label syntax. Cubes are
// joined with '|' and each cube's literals with '&', matching the grammar
// parseLabel accepts — so Write followed by Parse round-trips.
func writeLabel(l automaton.Label, numAP int) string {
	if l.IsFalse() {
		return "f"
	}
	terms := make([]string, 0, len(l.Cubes))
	for _, c := range l.Cubes {
		if c.Pos == 0 && c.Neg == 0 {
			terms = append(terms, "t")
			continue
		}
		var lits []string
		for i := 0; i < numAP; i++ {
			mask := uint64(1) << uint(i)
			switch {
			case c.Pos&mask != 0:
				lits = append(lits, fmt.Sprintf("%d", i))
			case c.Neg&mask != 0:
				lits = append(lits, fmt.Sprintf("!%d", i))
			}
		}
		if len(lits) == 0 {
			terms = append(terms, "t")
			continue
		}
		term := lits[0]
		for _, lit := range lits[1:] {
			term += "&" + lit
		}
		terms = append(terms, term)
	}
	out := terms[0]
	for _, t := range terms[1:] {
		out += "|" + t
	}
	return out
}
