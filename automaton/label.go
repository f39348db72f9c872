package automaton

// Label is a boolean function over the automaton's atomic propositions,
// represented in disjunctive normal form as a set of cubes. This plays the
// role the teacher's NFA assigns to byte ranges / sparse transitions
// (nfa.Transition): a compact, directly-evaluable edge condition, without
// reaching for a full BDD package (no BDD library exists anywhere in the
// example pack — see DESIGN.md).
//
// A cube is a conjunction of literals over AP indices, encoded as two
// bitmasks: Pos (must be 1) and Neg (must be 0). A variable absent from both
// is a don't-care, so at most 64 APs fit. The HOA parser builds labels
// without checking the AP count; minterm.New rejects more than
// minterm.MaxAP (20) APs only later, when an indexer is built.
type Cube struct {
	Pos, Neg uint64
}

// Label is the empty-cube-list-is-False, single-don't-care-cube-is-True DNF.
type Label struct {
	Cubes []Cube
}

// True returns the label ⊤ (matches every assignment).
func True() Label { return Label{Cubes: []Cube{{}}} }

// False returns the label ⊥ (matches no assignment).
func False() Label { return Label{} }

// Lit returns the single-literal label ap (positive) or ¬ap (negative).
func Lit(apIndex int, positive bool) Label {
	c := Cube{}
	if positive {
		c.Pos = 1 << uint(apIndex)
	} else {
		c.Neg = 1 << uint(apIndex)
	}
	return Label{Cubes: []Cube{c}}
}

// IsFalse reports whether the label is ⊥.
func (l Label) IsFalse() bool { return len(l.Cubes) == 0 }

// conflict reports whether a cube has a variable required both true and false.
func (c Cube) conflict() bool { return c.Pos&c.Neg != 0 }

func andCube(a, b Cube) (Cube, bool) {
	c := Cube{Pos: a.Pos | b.Pos, Neg: a.Neg | b.Neg}
	return c, !c.conflict()
}

// And returns the conjunction a ⊓ b.
func And(a, b Label) Label {
	var out Label
	for _, ca := range a.Cubes {
		for _, cb := range b.Cubes {
			if c, ok := andCube(ca, cb); ok {
				out.Cubes = append(out.Cubes, c)
			}
		}
	}
	return out
}

// Or returns the disjunction a ⊔ b. Cubes are not merged/minimized; only
// satisfiability-preserving disjointness (And(...).IsFalse()) is relied on
// elsewhere, which tolerates a non-minimal cube list.
func Or(a, b Label) Label {
	out := Label{Cubes: append(append([]Cube(nil), a.Cubes...), b.Cubes...)}
	return out
}

// Not returns the negation of a label by distributing De Morgan's law over
// its cubes: ¬(c1 ∨ c2 ∨ ...) = ¬c1 ⊓ ¬c2 ⊓ ..., where ¬(cube) is itself a
// disjunction of single-literal cubes. Cube counts stay small in practice
// because automaton edge labels over a handful of APs rarely need more than
// a few cubes.
func Not(l Label) Label {
	acc := True()
	for _, c := range l.Cubes {
		var lits Label
		for bit := 0; bit < 64; bit++ {
			mask := uint64(1) << uint(bit)
			if c.Pos&mask != 0 {
				lits.Cubes = append(lits.Cubes, Cube{Neg: mask})
			}
			if c.Neg&mask != 0 {
				lits.Cubes = append(lits.Cubes, Cube{Pos: mask})
			}
		}
		acc = And(acc, lits)
	}
	return acc
}

// Eval reports whether the complete assignment (one bit per AP, bit i set
// iff AP i is true) satisfies the label.
func (l Label) Eval(assignment uint64) bool {
	for _, c := range l.Cubes {
		if c.Pos&assignment == c.Pos && c.Neg&^assignment == c.Neg {
			return true
		}
	}
	return false
}

// Disjoint reports whether a ⊓ b = ⊥, the determinism test spec.md §4.3
// uses under the name "label ⊓ already_seen = ⊥".
func Disjoint(a, b Label) bool { return And(a, b).IsFalse() }
