// Package artifact reads and writes the files this tool exchanges with
// the upstream training pipeline and downstream plotting.
//
// # Inputs
//
// Upstream training leaves three kinds of numeric artifacts behind, all
// delimited text, gzip-compressed when the filename ends in ".gz":
//
//   - the cluster connectivity matrix (headerless n×n floats),
//   - the niche-to-cluster loading matrix (headerless floats, niches
//     stacked across samples in manifest order),
//   - one sparse niche weight matrix per sample, stored as coordinate
//     triplets under a "#shape: R C" header line.
//
// Sample bookkeeping comes from a YAML manifest listing each sample's
// name and coordinates table; see [LoadManifest].
//
// # Outputs
//
// [Table] joins a sample's coordinate records with the computed
// Niche_NTScore and Cell_NTScore columns and round-trips through the
// same delimited format. [Summary] is the JSON run document consumed by
// the serve and view commands.
//
// # Errors
//
// A missing file is a MISSING_ARTIFACT error so callers can fail fast
// before any computation starts. Malformed numeric content is
// INVALID_INPUT, and manifest problems are INVALID_MANIFEST; no reader
// repairs or defaults bad data.
package artifact
