package colors

import (
	"math"
	"math/rand"
)

// convergenceTol is the centroid movement (Euclidean, in RGB units) below
// which a Lloyd run is considered converged.
const convergenceTol = 1e-3

// cluster runs Lloyd's k-means over the samples in RGB space and returns the
// centroids of the best restart.
//
// The effective cluster count is min(k, len(samples)). Each restart seeds
// its RNG with seed+restart, so results are reproducible for a fixed base
// seed; the restart with the lowest inertia (total intra-cluster squared
// distance) wins.
func cluster(samples []Pixel, k, restarts, maxIterations int, seed int64) []Pixel {
	if len(samples) == 0 || k <= 0 {
		return nil
	}
	if k > len(samples) {
		k = len(samples)
	}
	if restarts < 1 {
		restarts = 1
	}
	if maxIterations < 1 {
		maxIterations = 1
	}

	var best []Pixel
	bestInertia := math.Inf(1)

	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewSource(seed + int64(r)))
		centroids := lloyd(samples, k, maxIterations, rng)

		inertia := totalInertia(samples, centroids)
		if inertia < bestInertia {
			bestInertia = inertia
			best = centroids
		}
	}

	return best
}

// lloyd is one k-means run: random distinct samples as initial centroids,
// then assign/recompute until centroids stop moving or the iteration cap.
func lloyd(samples []Pixel, k, maxIterations int, rng *rand.Rand) []Pixel {
	centroids := make([]Pixel, k)
	for i, idx := range rng.Perm(len(samples))[:k] {
		centroids[i] = samples[idx]
	}

	assignments := make([]int, len(samples))
	sums := make([]Pixel, k)
	counts := make([]int, k)

	for iter := 0; iter < maxIterations; iter++ {
		for i := range sums {
			sums[i] = Pixel{}
			counts[i] = 0
		}

		for i, s := range samples {
			assignments[i] = nearestCentroid(centroids, s)
		}
		for i, s := range samples {
			j := assignments[i]
			sums[j][0] += s[0]
			sums[j][1] += s[1]
			sums[j][2] += s[2]
			counts[j]++
		}

		maxShift := 0.0
		for j := range centroids {
			if counts[j] == 0 {
				// Re-seed an orphaned centroid so every cluster stays
				// represented; forces at least one more iteration.
				centroids[j] = samples[rng.Intn(len(samples))]
				maxShift = math.Inf(1)
				continue
			}
			n := float64(counts[j])
			mean := Pixel{sums[j][0] / n, sums[j][1] / n, sums[j][2] / n}
			if shift := distance(centroids[j], mean); shift > maxShift {
				maxShift = shift
			}
			centroids[j] = mean
		}

		if maxShift < convergenceTol {
			break
		}
	}

	return centroids
}

func nearestCentroid(centroids []Pixel, s Pixel) int {
	bestIdx := 0
	bestDist := math.Inf(1)
	for j, c := range centroids {
		if d := distanceSq(s, c); d < bestDist {
			bestDist = d
			bestIdx = j
		}
	}
	return bestIdx
}

func totalInertia(samples []Pixel, centroids []Pixel) float64 {
	total := 0.0
	for _, s := range samples {
		total += distanceSq(s, centroids[nearestCentroid(centroids, s)])
	}
	return total
}
