package io

import (
	"fmt"
	"math/rand"

	"tabfeat/pkg/frame"
)

type DatasetOrder int

const (
	// OriginalOrder keeps the row order, so later splits hold later rows
	OriginalOrder DatasetOrder = iota
	RandomOrder
)

// SplitFrame cuts f into consecutive parts of the given sizes after ordering
// its rows. Rand is only used with RandomOrder.
func SplitFrame(f *frame.Frame, order DatasetOrder, rnd *rand.Rand, sizes ...int) ([]*frame.Frame, error) {
	total := 0
	for _, size := range sizes {
		if size < 0 {
			return nil, fmt.Errorf("negative split size %d", size)
		}
		total += size
	}
	if total > f.NumRows() {
		return nil, fmt.Errorf("split sizes add up to %d, frame has %d rows", total, f.NumRows())
	}

	indices := make([]int, f.NumRows())
	for i := range indices {
		indices[i] = i
	}
	if order == RandomOrder {
		if rnd == nil {
			return nil, fmt.Errorf("random order needs a random source")
		}
		rnd.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	splits := make([]*frame.Frame, len(sizes))
	idx := 0
	for i, size := range sizes {
		splits[i] = f.Take(indices[idx : idx+size])
		idx += size
	}
	return splits, nil
}

// TrainTestSplit holds out the last testFraction of the rows, or a random
// sample of them with RandomOrder.
func TrainTestSplit(f *frame.Frame, testFraction float64, order DatasetOrder, rnd *rand.Rand) (*frame.Frame, *frame.Frame, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}
	testSize := int(float64(f.NumRows()) * testFraction)
	splits, err := SplitFrame(f, order, rnd, f.NumRows()-testSize, testSize)
	if err != nil {
		return nil, nil, err
	}
	return splits[0], splits[1], nil
}
