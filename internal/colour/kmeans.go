package colour

import (
	"math"
	"math/rand/v2"
)

// maxIterations caps Lloyd refinement.
const maxIterations = 20

// KMeans partitions samples into k clusters and returns one centroid per
// cluster. Centroids are seeded with k-means++ using rng and refined with
// Lloyd iterations until no assignment changes or maxIterations is reached.
//
// When there are no more samples than clusters the samples are returned
// unchanged. The result is not sorted. A nil rng uses a fresh PCG source.
func KMeans(samples []RGB, k int, rng *rand.Rand) []RGB {
	if k <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(samples) <= k {
		out := make([]RGB, len(samples))
		copy(out, samples)
		return out
	}

	centroids := seedPlusPlus(samples, k, rng)
	assignments := make([]int, len(samples))
	for i := range assignments {
		assignments[i] = -1
	}

	sums := make([]RGB, k)
	counts := make([]int, k)

	for range maxIterations {
		changed := false
		for i, s := range samples {
			nearest := nearestCentroid(s, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}

		clear(sums)
		clear(counts)
		for i, s := range samples {
			c := assignments[i]
			sums[c].R += s.R
			sums[c].G += s.G
			sums[c].B += s.B
			counts[c]++
		}

		// Empty clusters keep their previous centroid.
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			n := float64(counts[c])
			centroids[c] = NewRGB(sums[c].R/n, sums[c].G/n, sums[c].B/n)
		}
	}

	return centroids
}

// seedPlusPlus picks k initial centroids. The first is uniform; each later
// one is drawn with probability proportional to the squared distance from
// a sample to its nearest chosen centroid.
func seedPlusPlus(samples []RGB, k int, rng *rand.Rand) []RGB {
	centroids := make([]RGB, 0, k)
	centroids = append(centroids, samples[rng.IntN(len(samples))])

	minDist := make([]float64, len(samples))
	for i := range minDist {
		minDist[i] = math.MaxFloat64
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		total := 0.0
		for i, s := range samples {
			if d := s.DistanceSquared(last); d < minDist[i] {
				minDist[i] = d
			}
			total += minDist[i]
		}

		centroids = append(centroids, samples[weightedPick(minDist, total, rng)])
	}

	return centroids
}

// weightedPick returns the first index whose cumulative weight reaches a
// uniform draw over total. Zero-weight entries are never chosen unless every
// weight is zero, in which case index 0 is returned.
func weightedPick(weights []float64, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return 0
	}

	target := rng.Float64() * total
	cumulative := 0.0
	lastNonZero := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		lastNonZero = i
		if cumulative >= target {
			return i
		}
	}
	// Rounding can leave cumulative just short of target.
	return lastNonZero
}

// nearestCentroid returns the index of the closest centroid. Ties go to the
// lowest index.
func nearestCentroid(s RGB, centroids []RGB) int {
	best := 0
	bestDist := math.MaxFloat64
	for j, c := range centroids {
		if d := s.DistanceSquared(c); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}
