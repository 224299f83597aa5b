package metro

import (
	"sync"
	"testing"
)

func TestRandSource_DrawWithinBounds(t *testing.T) {
	src := NewRandSource(123)
	bounds := [][2]float64{
		{0, 1},
		{-5, 5},
		{0, 10},
		{-180, 180},
	}
	for _, b := range bounds {
		for _i := 0; _i < 500; _i++ {
			v := src.Draw(b[0], b[1])
			if v < b[0] || v >= b[1] {
				t.Fatalf("Draw(%v, %v) = %v, out of bounds", b[0], b[1], v)
			}
		}
	}
}

func TestRandSource_SameSeedSameStream(t *testing.T) {
	a := NewRandSource(77)
	b := NewRandSource(77)
	for i := 0; i < 100; i++ {
		va, vb := a.Draw(-3, 3), b.Draw(-3, 3)
		if va != vb {
			t.Fatalf("draw %d diverged: %v vs %v", i, va, vb)
		}
	}
}

func TestRandSource_ZeroSeedIsTimeSeeded(t *testing.T) {
	// Two zero-seeded sources should (almost surely) not replay the same
	// stream; just confirm construction works and draws stay in bounds.
	src := NewRandSource(0)
	v := src.Draw(2, 4)
	if v < 2 || v >= 4 {
		t.Fatalf("Draw(2, 4) = %v, out of bounds", v)
	}
}

func TestLockedSource_WrapIsIdempotent(t *testing.T) {
	inner := NewRandSource(9)
	ls := NewLockedSource(inner)
	if NewLockedSource(ls) != ls {
		t.Error("wrapping a LockedSource should return it unchanged")
	}
}

func TestLockedSource_ConcurrentDraws(t *testing.T) {
	ls := NewLockedSource(NewRandSource(42))

	var wg sync.WaitGroup
	for _i := 0; _i < 8; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 1000; _i++ {
				v := ls.Draw(-1, 1)
				if v < -1 || v >= 1 {
					t.Errorf("Draw(-1, 1) = %v, out of bounds", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
