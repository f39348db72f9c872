// Command seminaut reads one or more TGBA automata in HOA format and
// emits their semi-deterministic (or, with --cd, cut-deterministic) Büchi
// equivalent, per spec.md §6.
package main

import "github.com/seminaut/seminaut/cmd/seminaut/cmd"

func main() {
	cmd.Execute()
}
