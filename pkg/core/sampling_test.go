package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphere_StaysInHemisphere(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0), // exercises the Y seed axis
		NewVec3(0, -1, 0),
		NewVec3(1, 1, 1).Normalize(),
	}

	for _, normal := range normals {
		for i := 0; i < 1000; i++ {
			dir := SampleCosineHemisphere(normal, NewVec2(random.Float64(), random.Float64()))

			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", dir.Length())
			}
			if dir.Dot(normal) < -1e-9 {
				t.Fatalf("Direction %v lies below the hemisphere of %v", dir, normal)
			}
		}
	}
}

func TestSampleCosineHemisphere_CosineWeighted(t *testing.T) {
	// For a cosine-weighted distribution E[cos θ] = 2/3
	random := rand.New(rand.NewSource(7))
	normal := NewVec3(0, 1, 0)

	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := SampleCosineHemisphere(normal, NewVec2(random.Float64(), random.Float64()))
		sum += dir.Dot(normal)
	}

	mean := sum / n
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Expected mean cosine ~0.667, got %f", mean)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	for _, w := range []Vec3{NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, -1), NewVec3(0.05, 0.99, 0).Normalize()} {
		u, v := OrthonormalBasis(w)

		const tolerance = 1e-9
		if math.Abs(u.Length()-1) > tolerance || math.Abs(v.Length()-1) > tolerance {
			t.Errorf("Basis for %v is not unit length: |u|=%f |v|=%f", w, u.Length(), v.Length())
		}
		if math.Abs(u.Dot(v)) > tolerance || math.Abs(u.Dot(w)) > tolerance || math.Abs(v.Dot(w)) > tolerance {
			t.Errorf("Basis for %v is not orthogonal", w)
		}
	}
}

func TestSampleTent(t *testing.T) {
	tests := []struct {
		u        float64
		expected float64
	}{
		{0, -1},
		{0.125, -0.5},
		{0.5, 0},
		{0.875, 0.5},
	}

	for _, tt := range tests {
		if got := SampleTent(tt.u); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("SampleTent(%f): expected %f, got %f", tt.u, tt.expected, got)
		}
	}
}

func TestSampleTent_Distribution(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	const n = 100000
	inner := 0
	for i := 0; i < n; i++ {
		x := SampleTent(random.Float64())
		if x < -1 || x >= 1 {
			t.Fatalf("Tent sample %f outside [-1, 1)", x)
		}
		if math.Abs(x) < 0.5 {
			inner++
		}
	}

	// A triangle on [-1, 1] puts 3/4 of its mass within |x| < 0.5
	if ratio := float64(inner) / n; math.Abs(ratio-0.75) > 0.01 {
		t.Errorf("Expected ~75%% of samples within |x| < 0.5, got %.3f", ratio)
	}
}

func TestSeededSamplerDeterministic(t *testing.T) {
	a := NewSeededSampler(42)
	b := NewSeededSampler(42)
	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce the same sequence")
		}
	}
}
