package trajectory

import (
	"math"
	"math/bits"
	"slices"

	"gonum.org/v1/gonum/mat"

	nterrors "github.com/nichetrace/nichetrace/pkg/errors"
)

// solveHeldKarp finds the maximum-weight Hamiltonian cycle anchored at
// cluster 0 and converts it to an open path by cutting the cycle's
// weakest edge.
func solveHeldKarp(m *mat.Dense) ([]int, error) {
	cycle := heldKarpCycle(m)
	return CutCycle(m, cycle)
}

// heldKarpCycle runs the Held-Karp dynamic program and returns the
// maximum-weight Hamiltonian cycle as a closed path of length n+1 that
// starts and ends at cluster 0.
//
// State: best[mask][k] is the maximum weight of a path that starts at the
// anchor, visits exactly the clusters in mask (the anchor is implicit and
// never appears in a mask), and ends at k. parent[mask][k] records the
// predecessor of k on that path. Predecessors are scanned in ascending
// cluster order with a strict comparison, so ties resolve to the lowest
// predecessor.
//
// The tables hold n·2ⁿ entries and become garbage as soon as the cycle is
// reconstructed; nothing outside this function retains them.
func heldKarpCycle(m *mat.Dense) []int {
	n, _ := m.Dims()
	size := 1 << n

	best := make([][]float64, size)
	parent := make([][]int, size)
	for mask := range best {
		best[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for k := range best[mask] {
			best[mask][k] = math.Inf(-1)
			parent[mask][k] = -1
		}
	}

	// Paths of length one: anchor straight to k.
	for k := 1; k < n; k++ {
		best[1<<k][k] = m.At(0, k)
		parent[1<<k][k] = 0
	}

	// Masks grow strictly when a cluster is added, so ascending mask order
	// visits every predecessor state before it is needed.
	for mask := 1; mask < size; mask++ {
		if mask&1 != 0 || bits.OnesCount(uint(mask)) < 2 {
			continue
		}
		for k := 1; k < n; k++ {
			if mask&(1<<k) == 0 {
				continue
			}
			prev := mask &^ (1 << k)
			for pred := 1; pred < n; pred++ {
				if prev&(1<<pred) == 0 {
					continue
				}
				if cand := best[prev][pred] + m.At(pred, k); cand > best[mask][k] {
					best[mask][k] = cand
					parent[mask][k] = pred
				}
			}
		}
	}

	// Close the cycle back to the anchor.
	full := size - 2
	end := 1
	bestWeight := math.Inf(-1)
	for k := 1; k < n; k++ {
		if w := best[full][k] + m.At(k, 0); w > bestWeight {
			bestWeight = w
			end = k
		}
	}

	// Walk the parent chain back to the anchor, then emit the closed cycle.
	rev := make([]int, 0, n-1)
	for mask, cur := full, end; cur != 0; {
		rev = append(rev, cur)
		next := parent[mask][cur]
		mask &^= 1 << cur
		cur = next
	}

	cycle := make([]int, 0, n+1)
	cycle = append(cycle, 0)
	for i := len(rev) - 1; i >= 0; i-- {
		cycle = append(cycle, rev[i])
	}
	cycle = append(cycle, 0)
	return cycle
}

// CutCycle converts a closed Hamiltonian cycle into an open path by
// removing the minimum-weight edge, wraparound edge included. Among
// equal-weight edges the lowest-indexed one is cut.
//
// cycle must have length n+1 with cycle[0] == cycle[n] and visit every
// cluster exactly once; violations return an INVALID_INPUT error. The
// splice keeps all n clusters and never traverses the cut edge: cutting
// the closing edge keeps the cycle order, cutting the first edge walks
// the cycle backwards, and an interior cut re-orients the two arcs into
// one contiguous sequence starting from the smaller cluster ID of the
// cut edge.
//
// For n == 2 the cycle has exactly two edges and no meaningful weakest
// one, so CutCycle refuses with a DEGENERATE_TRAJECTORY error instead of
// picking silently; the brute-force strategy handles two clusters.
func CutCycle(m *mat.Dense, cycle []int) ([]int, error) {
	if err := validateMatrix(m); err != nil {
		return nil, err
	}
	n, _ := m.Dims()

	if len(cycle) != n+1 || cycle[0] != cycle[n] {
		return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
			"cycle must close over all %d clusters, got length %d", n, len(cycle))
	}
	seen := make([]bool, n)
	for _, c := range cycle[:n] {
		if c < 0 || c >= n || seen[c] {
			return nil, nterrors.New(nterrors.ErrCodeInvalidInput,
				"cycle is not a permutation of the %d clusters", n)
		}
		seen[c] = true
	}

	if n == 2 {
		return nil, nterrors.New(nterrors.ErrCodeDegenerateTrajectory,
			"a two-cluster cycle has no weakest edge to cut; use the BF strategy for n=2")
	}

	cut := 0
	minWeight := m.At(cycle[0], cycle[1])
	for i := 1; i < n; i++ {
		if w := m.At(cycle[i], cycle[i+1]); w < minWeight {
			minWeight = w
			cut = i
		}
	}

	// Position of the smaller cluster ID on the cut edge decides the
	// splice orientation.
	s := cut
	if cycle[cut] > cycle[cut+1] {
		s = cut + 1
	}

	switch {
	case s == n:
		// Closing edge cut: drop the trailing anchor duplicate.
		return slices.Clone(cycle[:n]), nil

	case s == 0:
		// First edge cut: anchor stays in front, rest of the cycle reversed.
		path := make([]int, 0, n)
		for i := n; i >= 1; i-- {
			path = append(path, cycle[i])
		}
		return path, nil

	case s == cut:
		// Interior cut, smaller ID first: reverse both arcs independently.
		open := cycle[:n]
		path := make([]int, 0, n)
		for i := cut; i >= 0; i-- {
			path = append(path, open[i])
		}
		for i := n - 1; i >= cut+1; i-- {
			path = append(path, open[i])
		}
		return path, nil

	default:
		// Interior cut, smaller ID second: rotate the cycle at the cut.
		open := cycle[:n]
		path := make([]int, 0, n)
		path = append(path, open[cut+1:]...)
		path = append(path, open[:cut+1]...)
		return path, nil
	}
}
