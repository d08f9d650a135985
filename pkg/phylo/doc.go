// Package phylo reconstructs unrooted perfect phylogenies from binary
// taxon×character matrices in O(n·m).
//
// # Pipeline
//
// [Run] chains the two stages of the engine:
//
//  1. [SortColumns] reorders characters with n stable two-bucket passes, one
//     per taxon row from last to first, putting the 1-bucket first. The
//     result lists columns in lexicographic order of their bit strings, so
//     every superset precedes its subsets.
//  2. [Refine] processes the sorted columns left to right while maintaining a
//     partition of the taxa into blocks. Each character either splits one
//     block, co-labels an existing split, or proves incompatibility.
//
// On success the outcome is a [tree.Tree] plus a [SplitMap] recording every
// informative character's clade. On failure it is a [ConflictError] naming
// the first structurally impossible character together with the sort result
// and the splits recorded so far, so callers can write diagnostics without
// re-running the analysis.
//
// # Determinism
//
// Every output of this package is a pure function of its input. Nothing
// iterates a map where the order could reach the output.
//
// # Example
//
//	res, err := phylo.Run(taxa, characters, cells)
//	if err != nil {
//	    return err // invalid input or an internal invariant violation
//	}
//	if res.Conflict != nil {
//	    fmt.Println("not a perfect phylogeny, witness:", res.Conflict.Characters)
//	    return nil
//	}
//	fmt.Println(res.Newick())
package phylo
