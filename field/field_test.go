package field

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/vmath"
)

// probe records every coordinate it is sampled at and answers from fn
type probe struct {
	calls [][3]float64
	fn    func(x, y, z float64) float64
}

func (p *probe) Sample(x, y, z float64) float64 {
	p.calls = append(p.calls, [3]float64{x, y, z})
	return p.fn(x, y, z)
}

func TestBuild_AllocatesZeroGrid(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		cols, rows int
	}{
		{"Exact", 4, 3, 4, 3},
		{"Fractional rounds up", 2.1, 0.5, 3, 1},
		{"Empty", 0, 5, 0, 5},
		{"Negative clamps", -3, 2, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.w, tt.h, noise.Constant(0), Config{})
			if f.Cols() != tt.cols || f.Rows() != tt.rows {
				t.Fatalf("Expected %dx%d, got %dx%d", tt.cols, tt.rows, f.Cols(), f.Rows())
			}
			if f.Len() != tt.cols*tt.rows {
				t.Fatalf("Expected %d cells, got %d", tt.cols*tt.rows, f.Len())
			}
			f.ForEach(func(v vmath.Vector, x, y int) {
				if v != (vmath.Vector{}) {
					t.Errorf("Cell (%d,%d) not zero: %v", x, y, v)
				}
			})
		})
	}
}

func TestBuild_DiscardsPriorState(t *testing.T) {
	f := New(3, 3, noise.Constant(0.5), Config{})
	f.Update(16)
	if v, _ := f.Cell(1, 1); v.GetLength() == 0 {
		t.Fatal("Expected update to populate cells")
	}

	f.Build()
	if f.Len() != 9 {
		t.Fatalf("Expected 9 cells after rebuild, got %d", f.Len())
	}
	f.ForEach(func(v vmath.Vector, x, y int) {
		if v != (vmath.Vector{}) {
			t.Errorf("Cell (%d,%d) kept state across Build: %v", x, y, v)
		}
	})
}

func TestUpdate_ConstantNoiseScenario(t *testing.T) {
	f := New(2, 2, noise.Constant(0.25), Config{Frequency: 1})
	f.Update(1000)

	wantAngle := 0.25 * 2 * math.Pi
	f.ForEach(func(v vmath.Vector, x, y int) {
		if math.Abs(v.GetAngle()-wantAngle) > 1e-9 {
			t.Errorf("Cell (%d,%d): expected angle %v, got %v", x, y, wantAngle, v.GetAngle())
		}
		if math.Abs(v.GetLength()-0.25) > 1e-9 {
			t.Errorf("Cell (%d,%d): expected length 0.25, got %v", x, y, v.GetLength())
		}
	})
	if f.Time() != 1000 {
		t.Errorf("Expected time 1000, got %v", f.Time())
	}
}

func TestUpdate_SamplesExpectedCoordinates(t *testing.T) {
	p := &probe{fn: func(x, y, z float64) float64 {
		// Distinguish the magnitude lookup by its offset
		if x >= lengthOffset {
			return 0.1 + (x-lengthOffset)*0.5 + (y-lengthOffset)*0.25
		}
		return 0
	}}
	f := New(3, 2, p, Config{Frequency: 0.5})
	f.Update(400)
	f.Update(600)

	// Second update only
	calls := p.calls[len(p.calls)-2*f.Len():]
	wantT := (1000 * 0.5) / 1000

	i := 0
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			want := [][3]float64{
				{float64(x) / 20, float64(y) / 20, wantT},
				{float64(x)/10 + 40000, float64(y)/10 + 40000, wantT},
			}
			if diff := cmp.Diff(want, calls[i:i+2]); diff != "" {
				t.Errorf("Cell (%d,%d) sample coordinates (-want +got):\n%s", x, y, diff)
			}
			i += 2

			v, _ := f.Cell(x, y)
			wantLen := p.fn(float64(x)/10+40000, float64(y)/10+40000, wantT)
			if math.Abs(v.GetLength()-wantLen) > 1e-9 {
				t.Errorf("Cell (%d,%d): expected length %v, got %v", x, y, wantLen, v.GetLength())
			}
		}
	}
}

func TestUpdate_ObserverOrderAndIdentity(t *testing.T) {
	f := New(3, 2, noise.Constant(0.1), Config{})

	type visit struct{ X, Y int }
	var visits []visit
	f.OnCell(func(v *vmath.Vector, x, y int) {
		visits = append(visits, visit{x, y})
		cell, _ := f.Cell(x, y)
		if *v != cell {
			t.Errorf("Observer got %v, grid holds %v at (%d,%d)", *v, cell, x, y)
		}
	})
	f.Update(16)

	want := []visit{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}
	if diff := cmp.Diff(want, visits); diff != "" {
		t.Errorf("Visit order mismatch (-want +got):\n%s", diff)
	}

	visits = nil
	f.OnCell(nil)
	f.Update(16)
	if len(visits) != 0 {
		t.Errorf("Expected no visits after removing observer, got %d", len(visits))
	}
}

func TestUpdate_ZeroDeltaKeepsTime(t *testing.T) {
	f := New(1, 1, noise.Constant(0), Config{})
	f.Update(0)
	if f.Time() != 0 {
		t.Errorf("Expected time 0, got %v", f.Time())
	}
	if f.Frequency() != 1 {
		t.Errorf("Expected default frequency 1, got %v", f.Frequency())
	}
}

func TestCell_OutOfRange(t *testing.T) {
	f := New(2, 2, noise.Constant(0), Config{})
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if _, ok := f.Cell(c[0], c[1]); ok {
			t.Errorf("Expected Cell%v to be out of range", c)
		}
	}
}
