package preprocessor

import (
	"slices"

	"golang.org/x/sync/errgroup"
)

// ParallelSort sorts items in place: chunks are sorted concurrently and then merged pairwise, also
// concurrently. items is never shared between two goroutines that write to the same range.
func ParallelSort[T any](items []T, cmp func(a, b T) int, chunks int) {
	if chunks < 2 || len(items) < 2*chunks {
		slices.SortStableFunc(items, cmp)
		return
	}

	size := (len(items) + chunks - 1) / chunks
	bounds := make([]int, 0, chunks+1)
	for start := 0; start < len(items); start += size {
		bounds = append(bounds, start)
	}
	bounds = append(bounds, len(items))

	var g errgroup.Group
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		g.Go(func() error {
			slices.SortStableFunc(items[lo:hi], cmp)
			return nil
		})
	}
	_ = g.Wait()

	buf := make([]T, len(items))
	src, dst := items, buf
	for len(bounds) > 2 {
		next := make([]int, 0, len(bounds)/2+2)
		var mg errgroup.Group
		i := 0
		for ; i+2 < len(bounds); i += 2 {
			lo, mid, hi := bounds[i], bounds[i+1], bounds[i+2]
			mg.Go(func() error {
				mergeRuns(dst[lo:hi], src[lo:mid], src[mid:hi], cmp)
				return nil
			})
			next = append(next, lo)
		}
		if i+1 < len(bounds) {
			// odd run out, carried over unchanged
			lo, hi := bounds[i], bounds[i+1]
			copy(dst[lo:hi], src[lo:hi])
			next = append(next, lo)
		}
		_ = mg.Wait()
		next = append(next, len(items))
		bounds = next
		src, dst = dst, src
	}

	if &src[0] != &items[0] {
		copy(items, src)
	}
}

// mergeRuns stable merge of a and b into out, len(out) == len(a)+len(b).
func mergeRuns[T any](out, a, b []T, cmp func(a, b T) int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			out[k] = b[j]
			j++
		} else {
			out[k] = a[i]
			i++
		}
		k++
	}
	k += copy(out[k:], a[i:])
	copy(out[k:], b[j:])
}
