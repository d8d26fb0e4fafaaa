// Package io reads and writes run summaries as JSON.
//
// Every scoring run leaves a summary.json next to its score tables: the
// solved ordering, the cluster scores, per-sample stats, and timing.
// This package owns that format. The serve and view commands re-read it
// instead of re-deriving anything from the tables, and external tools
// can consume it directly.
//
// # Format
//
// A summary is a single JSON object:
//
//	{
//	  "run_id": "7a9f…",
//	  "created_at": "2025-06-01T12:00:00Z",
//	  "strategy": "BF",
//	  "reversed": false,
//	  "ordering": [2, 0, 1],
//	  "cluster_scores": [0, 0.5, 1],
//	  "samples": [
//	    {
//	      "name": "S1",
//	      "cells": 100,
//	      "niche_score_min": 0.1,
//	      "niche_score_max": 0.9,
//	      "cell_score_min": 0.12,
//	      "cell_score_max": 0.88
//	    }
//	  ],
//	  "solve_elapsed_ns": 1200000,
//	  "total_elapsed_ns": 48000000,
//	  "cache_hit": false
//	}
//
// ordering lists cluster indices along the trajectory, first niche to
// last. cluster_scores is indexed by cluster, not by trajectory
// position. Durations are nanoseconds.
//
// [ImportSummary] and [ExportSummary] work on file paths, [ReadSummary]
// and [WriteSummary] on streams. The readers reject orderings that are
// not permutations and score vectors of the wrong length, so a summary
// that loads is safe to index with; an exported summary re-imports to
// the same value.
package io
