// Package pkg provides the core libraries for pplinear, a linear-time perfect
// phylogeny solver for binary character matrices.
//
// # Overview
//
// A binary matrix of taxa (rows) by characters (columns) admits a perfect
// phylogeny when every character can be placed on a single edge of an
// unrooted tree over the taxa: the taxa having the character are exactly the
// ones on one side of that edge. The pkg directory is organized as follows:
//
//  1. [matrix] - Loading, validating and preparing the input matrix
//  2. [phylo] - The decision algorithm (column sort and refinement)
//  3. [tree] - The resulting tree and its Newick, DOT and SVG renderings
//  4. [io] - Artifact encoders (splits, witness, tree JSON)
//  5. [pipeline] - Orchestration (load → analyze → render) with caching
//
// # Architecture
//
// The data flow through pplinear:
//
//	matrix.csv
//	     ↓
//	[matrix] package (parse, normalize, drop empty columns)
//	     ↓
//	[phylo] package (sort columns by size, refine one partition per character)
//	     ↓
//	[tree] package (tree or conflict witness)
//	     ↓
//	Newick/splits/witness/JSON/DOT/SVG output
//
// # Quick Start
//
//	m, _ := matrix.Load("matrix.csv", matrix.Options{})
//	res, _ := phylo.Run(m.Taxa, m.Characters, m.Cells)
//	if res.Perfect() {
//	    fmt.Println(res.Newick())
//	} else {
//	    fmt.Println(res.Witness())
//	}
//
// The [pipeline] package wraps these steps and adds caching:
//
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := r.Execute(ctx, pipeline.Options{Source: "matrix.csv"})
//	fmt.Println(result.Summary.Witness)
//
// # Infrastructure
//
// [cache] - Cache backends (file, Redis, null) and key generation.
//
// [errors] - Error codes shared by the CLI and the analysis server.
//
// [observability] - Hooks for logging and metrics.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/phylo/...    # Specific package
//
// [matrix]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/matrix
// [phylo]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/phylo
// [tree]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/tree
// [io]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/cache
// [errors]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/errors
// [observability]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/Nir-David-Duani/pp-linear/pkg/buildinfo
package pkg
