package noise

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func sources() map[string]Source {
	return map[string]Source{
		AlgorithmSimplex:     NewSimplex(0),
		AlgorithmOpenSimplex: NewOpenSimplex(0),
		AlgorithmPerlin:      NewPerlin(0),
	}
}

func TestSource_RangeAndDeterminism(t *testing.T) {
	for name, src := range sources() {
		t.Run(name, func(t *testing.T) {
			for x := -20.0; x < 20; x += 0.73 {
				for y := -20.0; y < 20; y += 1.31 {
					z := x*0.1 + y*0.05
					v := src.Sample(x, y, z)
					if v < -1 || v > 1 {
						t.Fatalf("Sample(%v, %v, %v) = %v, outside [-1, 1]", x, y, z, v)
					}
					if again := src.Sample(x, y, z); again != v {
						t.Fatalf("Sample(%v, %v, %v) not deterministic: %v vs %v", x, y, z, v, again)
					}
				}
			}
		})
	}
}

func TestSource_Continuity(t *testing.T) {
	const step = 1e-5
	for name, src := range sources() {
		t.Run(name, func(t *testing.T) {
			for x := 0.05; x < 10; x += 0.37 {
				a := src.Sample(x, x*0.5, 0.3)
				b := src.Sample(x+step, x*0.5, 0.3)
				if math.Abs(a-b) > 0.01 {
					t.Errorf("Discontinuity at x=%v: %v -> %v", x, a, b)
				}
			}
		})
	}
}

func TestSimplex_NotConstant(t *testing.T) {
	s := NewSimplex(0)
	first := s.Sample(0.5, 0.5, 0.5)
	for i := 1; i < 50; i++ {
		if s.Sample(float64(i)*0.37, float64(i)*0.11, 0.5) != first {
			return
		}
	}
	t.Error("Expected simplex noise to vary across the domain")
}

func TestSimplex_LatticePointsAreZero(t *testing.T) {
	// Points whose coordinate sum is a multiple of 3 skew onto a simplex vertex,
	// where every corner contribution vanishes
	s := NewSimplex(0)
	for _, p := range [][3]float64{{0, 0, 0}, {1, 2, 3}, {2, 2, 2}, {-4, 5, 2}} {
		if v := s.Sample(p[0], p[1], p[2]); math.Abs(v) > 1e-12 {
			t.Errorf("Sample%v = %v, expected 0", p, v)
		}
	}
}

func TestSimplex_ReferenceValues(t *testing.T) {
	// Seed 0 reproduces the page's noise field
	tests := []struct {
		x, y, z float64
		want    float64
	}{
		{1.7, -3.2, 12.5, 0.370219843687243},
		{0.1, 0.2, 0.3, 0.635890368},
	}
	s := NewSimplex(0)
	for _, tt := range tests {
		if got := s.Sample(tt.x, tt.y, tt.z); math.Abs(got-tt.want) > 1e-8 {
			t.Errorf("Sample(%v, %v, %v): Expected %v, got %v", tt.x, tt.y, tt.z, tt.want, got)
		}
	}
}

func TestSimplex_SeedChangesField(t *testing.T) {
	a := NewSimplex(0)
	b := NewSimplex(12345)
	same := NewSimplex(0)

	differs := false
	for i := 0; i < 100; i++ {
		x, y, z := float64(i)*0.31, float64(i)*0.17, 0.25
		if a.Sample(x, y, z) != same.Sample(x, y, z) {
			t.Fatalf("Expected identical seeds to produce identical fields at %d", i)
		}
		if a.Sample(x, y, z) != b.Sample(x, y, z) {
			differs = true
		}
	}
	if !differs {
		t.Error("Expected a different seed to change the field")
	}
}

func TestSimplex_ReseedRestoresField(t *testing.T) {
	s := NewSimplex(7)
	want := s.Sample(1.1, 2.2, 3.3)
	s.Seed(99)
	s.Seed(7)
	if got := s.Sample(1.1, 2.2, 3.3); got != want {
		t.Errorf("Expected reseeding to restore field, got %v want %v", got, want)
	}
}

func TestSimplex_NonFinitePropagates(t *testing.T) {
	s := NewSimplex(0)
	if v := s.Sample(math.NaN(), 0, 0); !math.IsNaN(v) {
		t.Errorf("Expected NaN for NaN input, got %v", v)
	}
}

func TestConstantAndFunc(t *testing.T) {
	c := Constant(0.25)
	if c.Sample(1, 2, 3) != 0.25 {
		t.Error("Constant source returned wrong value")
	}
	f := Func(func(x, y, z float64) float64 { return x - y + z })
	if f.Sample(3, 2, 1) != 2 {
		t.Error("Func adapter did not forward arguments")
	}
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"Default", DefaultConfig(), nil},
		{"Empty uses simplex", Config{}, nil},
		{"OpenSimplex", Config{Algorithm: AlgorithmOpenSimplex}, nil},
		{"Perlin session", Config{Algorithm: AlgorithmPerlin, SeedMode: SeedSession}, nil},
		{"Unknown algorithm", Config{Algorithm: "worley"}, ErrUnknownAlgorithm},
		{"Unknown seed mode", Config{SeedMode: "random"}, ErrUnknownSeedMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.cfg, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if src == nil {
				t.Fatal("Expected non-nil source")
			}
		})
	}
}

func TestNew_DefaultIsSimplexSeedZero(t *testing.T) {
	src, err := New(DefaultConfig(), time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ref := NewSimplex(0)
	if src.Sample(0.3, 0.6, 0.9) != ref.Sample(0.3, 0.6, 0.9) {
		t.Error("Expected default source to match simplex seed 0")
	}
}

func TestResolveSeed(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)

	seed, err := Config{SeedMode: SeedFixed, Seed: 42}.ResolveSeed(now)
	if err != nil || seed != 42 {
		t.Errorf("Fixed mode: expected 42, got %d (%v)", seed, err)
	}

	seed, err = Config{SeedMode: SeedSession, Seed: 42}.ResolveSeed(now)
	if err != nil || seed != 1_700_000_000_123 {
		t.Errorf("Session mode: expected start millis, got %d (%v)", seed, err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
	if err := (Config{Algorithm: "worley"}).Validate(); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}
	if err := (Config{SeedMode: "random"}).Validate(); !errors.Is(err, ErrUnknownSeedMode) {
		t.Errorf("Expected ErrUnknownSeedMode, got %v", err)
	}
}
