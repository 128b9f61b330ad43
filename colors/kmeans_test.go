package colors

import (
	"math/rand"
	"reflect"
	"regexp"
	"testing"
)

// makeBlob returns n samples normally scattered around a center color.
func makeBlob(rng *rand.Rand, center Pixel, spread float64, n int) []Pixel {
	samples := make([]Pixel, n)
	for i := range samples {
		var p Pixel
		for c := 0; c < 3; c++ {
			v := center[c] + rng.NormFloat64()*spread
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			p[c] = v
		}
		samples[i] = p
	}
	return samples
}

func TestCluster_CentroidCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	samples := makeBlob(rng, Pixel{120, 40, 200}, 15, 500)

	tests := []struct {
		name string
		k    int
		want int
	}{
		{"k smaller than sample count", 8, 8},
		{"k equals sample count", 500, 500},
		{"k larger than sample count", 600, 500},
		{"k of one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cluster(samples, tt.k, 3, 50, 42)
			if len(got) != tt.want {
				t.Errorf("cluster returned %d centroids, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCluster_EmptyAndInvalidInput(t *testing.T) {
	if got := cluster(nil, 8, 10, 100, 42); got != nil {
		t.Errorf("cluster(nil) = %v, want nil", got)
	}
	samples := []Pixel{{1, 2, 3}}
	if got := cluster(samples, 0, 10, 100, 42); got != nil {
		t.Errorf("cluster with k=0 = %v, want nil", got)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := append(
		makeBlob(rng, Pixel{200, 30, 30}, 10, 300),
		makeBlob(rng, Pixel{30, 30, 200}, 10, 300)...,
	)

	a := cluster(samples, 4, 10, 100, 42)
	b := cluster(samples, 4, 10, 100, 42)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different centroids:\n%v\n%v", a, b)
	}
}

func TestCluster_RecoversSeparatedColors(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	red := Pixel{220, 30, 30}
	blue := Pixel{30, 30, 220}
	samples := append(
		makeBlob(rng, red, 5, 400),
		makeBlob(rng, blue, 5, 400)...,
	)

	centroids := cluster(samples, 2, 10, 100, 42)
	if len(centroids) != 2 {
		t.Fatalf("expected 2 centroids, got %d", len(centroids))
	}

	foundRed, foundBlue := false, false
	for _, c := range centroids {
		if distance(c, red) < 15 {
			foundRed = true
		}
		if distance(c, blue) < 15 {
			foundBlue = true
		}
	}
	if !foundRed || !foundBlue {
		t.Errorf("centroids %v do not recover the two source colors", centroids)
	}
}

func TestCluster_CentroidsFormatAsValidHex(t *testing.T) {
	hexPattern := regexp.MustCompile(`^#[0-9A-F]{6}$`)

	rng := rand.New(rand.NewSource(9))
	samples := makeBlob(rng, Pixel{90, 160, 70}, 25, 500)

	for _, c := range cluster(samples, 8, 10, 100, 42) {
		hex := formatHex(c)
		if !hexPattern.MatchString(hex) {
			t.Errorf("centroid %v formatted as %q, not a valid uppercase 6-digit hex", c, hex)
		}
	}
}

func TestCluster_BestRestartHasLowestInertia(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	samples := append(
		makeBlob(rng, Pixel{240, 200, 20}, 8, 200),
		makeBlob(rng, Pixel{20, 100, 160}, 8, 200)...,
	)

	multi := cluster(samples, 2, 10, 100, 42)
	multiInertia := totalInertia(samples, multi)

	// Any single restart can do no better than the multi-restart pick.
	for r := int64(0); r < 10; r++ {
		single := cluster(samples, 2, 1, 100, 42+r)
		if totalInertia(samples, single) < multiInertia-1e-9 {
			t.Errorf("restart with seed %d beat the multi-restart result", 42+r)
		}
	}
}
