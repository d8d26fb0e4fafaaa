// Package propagate projects niche-cluster NT scores down to finer
// granularities: first to niches through the cluster loading matrix, then
// to cells through each sample's niche weight matrix.
//
// # Projection stages
//
// [NicheScores] multiplies the loading matrix (rows = niches stacked
// across all samples, columns = clusters) by the cluster score vector.
// Each niche's score is the loading-weighted blend of the cluster scores
// it participates in.
//
// [CellScores] runs per sample. The sample's niche weight matrix (rows =
// niches, columns = cells) is normalized column-wise so every cell's
// mixture over its contributing niches sums to one, then transposed and
// multiplied by that sample's slice of the niche score vector. The
// normalization makes each cell score a weighted average rather than a
// raw sum: cells associated with many niches are not over-weighted.
//
// # Guarantees
//
// Both stages produce convex combinations: every projected score lies
// within the [min, max] range of the scores it was projected from. A
// cell with no niche weight at all has no meaningful score; that case is
// an INVALID_INPUT error rather than a silent default.
package propagate
