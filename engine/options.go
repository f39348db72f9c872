package engine

// Options collects the two-component engine's optimization toggles, one
// field per spec.md §4.6 flag. Defaults mirror the source tool's option-map
// defaults (original_source/src/breakpoint_twa.hpp's constructor): every
// optimization on except CutOnSCCEntry and CutDet itself.
type Options struct {
	CutDet           bool // produce cut-deterministic instead of semi-deterministic
	SCCAware         bool
	PowersetForWeak  bool
	PowersetOnCut    bool
	JumpToBottommost bool
	ReuseSCC         bool
	BsccAvoid        bool
	SkipLevels       bool
	CutAlways        bool
	CutOnSCCEntry    bool
}

// DefaultOptions returns the engine's default optimization set.
func DefaultOptions() Options {
	return Options{
		CutDet:           false,
		SCCAware:         true,
		PowersetForWeak:  true,
		PowersetOnCut:    true,
		JumpToBottommost: true,
		ReuseSCC:         true,
		BsccAvoid:        true,
		SkipLevels:       true,
		CutAlways:        true,
		CutOnSCCEntry:    false,
	}
}

// Pure returns the "disable every optimization except scc-aware" preset
// (spec.md §6 `--pure`), also clearing cut-always/cut-on-SCC-entry.
func Pure() Options {
	return Options{SCCAware: true}
}

// wantsBsccAvoid mirrors the source's `(bscc-avoid || reuse-deterministic)`
// coupling: reuse can't select an avoidable SCC it never computed.
func (o Options) wantsBsccAvoid() bool { return o.BsccAvoid || o.ReuseSCC }
