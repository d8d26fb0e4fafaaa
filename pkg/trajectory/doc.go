// Package trajectory constructs a one-dimensional ordering of niche
// clusters from their connectivity matrix and maps it to continuous
// NT scores.
//
// # Overview
//
// Upstream training produces an n×n non-negative connectivity matrix over
// niche clusters. This package finds the visiting order of the clusters
// that maximizes total connectivity along consecutive pairs (a
// maximum-weight Hamiltonian path) and assigns each cluster a score in
// [0, 1] by its position along that order. Scores flow downstream to
// niches and cells via [github.com/nichetrace/nichetrace/pkg/propagate].
//
// # Strategies
//
// Two interchangeable strategies are exposed through [Solve]:
//
//   - [StrategyBruteForce] ("BF"): enumerates every permutation in
//     lexicographic order and keeps the first-encountered maximum. Exact,
//     O(n·n!) — practical up to n ≈ 10–12.
//   - [StrategyHeldKarp] ("TSP"): Held-Karp dynamic programming over
//     visited subsets, O(n²·2ⁿ) time and O(n·2ⁿ) space. Finds the
//     maximum-weight Hamiltonian cycle anchored at cluster 0, then cuts
//     the cycle's weakest edge to obtain an open path (see [CutCycle]).
//
// The cycle cut is a deterministic approximation of the maximum-weight
// Hamiltonian path, not a proven-optimal extraction; it is preserved
// exactly for compatibility with established outputs.
//
// Neither strategy suspends or observes a deadline: a solve runs to
// completion once invoked. Callers choose the strategy up front based
// on n.
//
// # Determinism
//
// All tie-breaks are fixed and documented: brute force keeps the first
// maximum in lexicographic enumeration order, the dynamic program scans
// predecessors in ascending cluster order, and the cycle cut removes the
// lowest-indexed weakest edge. Re-running any strategy on the same matrix
// yields the same ordering.
package trajectory
