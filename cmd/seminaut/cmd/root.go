// Package cmd implements the seminaut command line, following the same
// cobra root-command layout the teacher's own CLI (junjiewwang-perf-analysis,
// cmd/cli/cmd/root.go) uses: package-level flag variables, a single
// Flags registration in init(), and an Execute() entry point
// main.go calls.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seminaut/seminaut/driver"
	"github.com/seminaut/seminaut/engine"
	"github.com/seminaut/seminaut/hoa"
)

var (
	cdFlag bool
	sdFlag bool

	baFlag   bool
	tbaFlag  bool
	tgbaFlag bool

	viaTGBA bool
	viaTBA  bool
	viaSBA  bool

	cutAlways      bool
	cutOnSCCEntry  bool
	cutHighestMark bool

	powersetForWeak    bool
	powersetOnCut      bool
	jumpToBottommost   bool
	bsccAvoid          bool
	reuseDeterministic bool
	skipLevels         bool
	sccAware           bool

	scc0        bool
	noSCCAware  bool
	pureFlag    bool

	preprocess      bool
	postprocess     bool
	postprocessComp bool

	s0Flag        bool
	noReductions  bool

	isCDFlag      bool
	highlightFlag bool
	complementStr string

	inputFiles []string
)

// rootCmd is the sole command: seminaut has no subcommands, only flags
// (spec.md §6's flag table), since the whole surface is "read automata,
// transform, write automata".
var rootCmd = &cobra.Command{
	Use:   "seminaut [files...]",
	Short: "Transform a TGBA into a semi- or cut-deterministic Büchi automaton",
	Long: `seminaut reads one or more generalized Büchi automata in HOA format
(from files, -f PATH, or standard input when no input is given) and writes
their semi-deterministic (or, with --cd, cut-deterministic) Büchi
equivalent to standard output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	f := rootCmd.Flags()

	f.BoolVar(&cdFlag, "cd", false, "produce a cut-deterministic automaton")
	f.BoolVar(&sdFlag, "sd", true, "produce a semi-deterministic automaton (default)")

	f.BoolVar(&baFlag, "ba", false, "output shape: state-based Büchi")
	f.BoolVar(&tbaFlag, "tba", false, "output shape: transition-based Büchi")
	f.BoolVar(&tgbaFlag, "tgba", false, "output shape: transition-based generalized Büchi (default)")

	f.BoolVar(&viaTGBA, "via-tgba", false, "include the as-is TGBA strategy (default: on, unless another --via-* is given)")
	f.BoolVar(&viaTBA, "via-tba", false, "include the TBA-degeneralized strategy (default: on, unless another --via-* is given)")
	f.BoolVar(&viaSBA, "via-sba", false, "include the SBA-degeneralized strategy (default: on, unless another --via-* is given)")

	f.BoolVar(&cutAlways, "cut-always", true, "cut every accepting-SCC-entering edge")
	f.BoolVar(&cutOnSCCEntry, "cut-on-SCC-entry", false, "cut whenever an edge crosses into a new SCC")
	f.BoolVar(&cutHighestMark, "cut-highest-mark", true, "cut on the highest acceptance mark (always in effect; kept for CLI parity)")

	f.BoolVar(&powersetForWeak, "powerset-for-weak", true, "use a powerset second-component state for inherently weak SCCs")
	f.BoolVar(&powersetOnCut, "powerset-on-cut", true, "split cut edges by powerset successor instead of a single breakpoint target")
	f.BoolVar(&jumpToBottommost, "jump-to-bottommost", true, "merge equal-R breakpoint states across SCCs (§4.6.5)")
	f.BoolVar(&bsccAvoid, "bscc-avoid", true, "avoid already-deterministic bottom SCCs in the first component")
	f.BoolVar(&reuseDeterministic, "reuse-deterministic", true, "reuse avoided SCCs verbatim instead of rebuilding them")
	f.BoolVar(&skipLevels, "skip-levels", true, "skip levels with no reachable acceptance during breakpoint advance")
	f.BoolVar(&sccAware, "scc-aware", true, "restrict powerset/breakpoint successors to the current SCC")

	f.BoolVar(&scc0, "scc0", false, "alias for --scc-aware=0")
	f.BoolVar(&noSCCAware, "no-scc-aware", false, "alias for --scc-aware=0")
	f.BoolVar(&pureFlag, "pure", false, "disable every optimization except scc-aware, and disable pre/post simplification")

	f.BoolVar(&preprocess, "preprocess", true, "simplify the input before transformation")
	f.BoolVar(&postprocess, "postprocess", true, "simplify the result after transformation")
	f.BoolVar(&postprocessComp, "postprocess-comp", true, "simplify the complemented result")

	f.BoolVar(&s0Flag, "s0", false, "alias for --preprocess=0 --postprocess=0 --postprocess-comp=0")
	f.BoolVar(&noReductions, "no-reductions", false, "alias for --preprocess=0 --postprocess=0 --postprocess-comp=0")

	f.BoolVar(&isCDFlag, "is-cd", false, "only check cut-determinism; emit no transformed automaton")
	f.BoolVar(&highlightFlag, "highlight", false, "annotate the result with first/second-component colours")
	f.StringVar(&complementStr, "complement", "", "apply NCSB complementation after semi-determinization [best|spot|pldi]")
	lookup := f.Lookup("complement")
	lookup.NoOptDefVal = "best"

	f.StringArrayVarP(&inputFiles, "file", "f", nil, "add an input file (repeatable)")

	rootCmd.Flags().SortFlags = false
}

// Execute runs the root command and maps its outcome onto spec.md §6's exit
// codes: 0 success, 1 user/input error, 2 unrecognized option.
func Execute() {
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "seminaut: %v\n", err)
		os.Exit(2)
		return nil
	})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "seminaut: %v\n", err)
		os.Exit(1)
	}
}

var errSomeInputsFailed = errors.New("one or more inputs failed")

func runRoot(c *cobra.Command, args []string) error {
	if !viaTGBA && !viaTBA && !viaSBA {
		viaTGBA, viaTBA, viaSBA = true, true, true
	}
	if scc0 || noSCCAware {
		sccAware = false
	}
	if s0Flag || noReductions {
		preprocess, postprocess, postprocessComp = false, false, false
	}

	opts := driver.DefaultOptions()
	if pureFlag {
		opts.Engine = engine.Pure()
		preprocess, postprocess, postprocessComp = false, false, false
	} else {
		opts.Engine = engine.Options{
			CutDet:           cdFlag,
			SCCAware:         sccAware,
			PowersetForWeak:  powersetForWeak,
			PowersetOnCut:    powersetOnCut,
			JumpToBottommost: jumpToBottommost,
			ReuseSCC:         reuseDeterministic,
			BsccAvoid:        bsccAvoid,
			SkipLevels:       skipLevels,
			CutAlways:        cutAlways,
			CutOnSCCEntry:    cutOnSCCEntry,
		}
	}
	opts.Engine.CutDet = cdFlag

	switch {
	case baFlag:
		opts.OutputShape = driver.BA
	case tbaFlag:
		opts.OutputShape = driver.TBA
	default:
		opts.OutputShape = driver.TGBA
	}

	opts.ViaTGBA, opts.ViaTBA, opts.ViaSBA = viaTGBA, viaTBA, viaSBA
	opts.Preprocess, opts.Postprocess, opts.PostprocessComp = preprocess, postprocess, postprocessComp
	opts.IsCD = isCDFlag
	opts.Highlight = highlightFlag
	if complementStr != "" {
		opts.Complement = driver.Complementer(strings.ToLower(complementStr))
	}

	sources := append(append([]string(nil), args...), inputFiles...)
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	hadFailure := false
	for _, path := range sources {
		if err := processInput(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "seminaut: %s: %v\n", path, err)
			hadFailure = true
		}
	}
	if hadFailure {
		return errSomeInputsFailed
	}
	return nil
}

func processInput(path string, opts driver.Options) error {
	r, err := openInput(path)
	if err != nil {
		return err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	auts, err := hoa.ParseAll(r)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	for i, aut := range auts {
		res, err := driver.Run(aut, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seminaut: %s: automaton %d: %v\n", path, i, err)
			continue
		}
		if res.IsCutDeterministic != nil {
			fmt.Printf("%v\n", *res.IsCutDeterministic)
			continue
		}
		if err := hoa.Write(os.Stdout, res.Automaton); err != nil {
			return err
		}
		if res.Highlight != nil {
			fmt.Fprintf(os.Stderr, "# component-colors: %v\n", res.Highlight.StateComponent)
		}
	}
	return nil
}

func openInput(path string) (io.Reader, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}
