package bitutil

import "testing"

func TestBitMatrixGetSet(t *testing.T) {
	bm := NewBitMatrixWithSize(10, 10)
	bm.Set(3, 5)
	if !bm.Get(3, 5) {
		t.Error("bit (3,5) should be set")
	}
	if bm.Get(5, 3) {
		t.Error("bit (5,3) should not be set")
	}
}

func TestBitMatrixWideRows(t *testing.T) {
	bm := NewBitMatrixWithSize(45, 3)
	bm.Set(44, 2)
	bm.Set(32, 0)
	if !bm.Get(44, 2) || !bm.Get(32, 0) {
		t.Error("bits past the first word should be set")
	}
	if bm.Get(31, 0) || bm.Get(0, 2) {
		t.Error("neighbouring bits should stay clear")
	}
}

func TestBitMatrixFlip(t *testing.T) {
	bm := NewBitMatrixWithSize(4, 4)
	bm.Flip(1, 2)
	if !bm.Get(1, 2) {
		t.Error("bit should be set after flip")
	}
	bm.Flip(1, 2)
	if bm.Get(1, 2) {
		t.Error("bit should be unset after double flip")
	}
}

func TestBitMatrixUnsetAndSetTo(t *testing.T) {
	bm := NewBitMatrixWithSize(4, 4)
	bm.Set(2, 3)
	bm.Unset(2, 3)
	if bm.Get(2, 3) {
		t.Error("bit should be unset")
	}
	bm.SetTo(1, 1, true)
	bm.SetTo(2, 2, false)
	if !bm.Get(1, 1) || bm.Get(2, 2) {
		t.Error("SetTo did not apply")
	}
}

func TestBitMatrixSetRegion(t *testing.T) {
	bm := NewBitMatrixWithSize(8, 8)
	bm.SetRegion(2, 2, 4, 4)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			expected := x >= 2 && x < 6 && y >= 2 && y < 6
			if bm.Get(x, y) != expected {
				t.Errorf("(%d,%d) = %v, want %v", x, y, bm.Get(x, y), expected)
			}
		}
	}
}

func TestParseStringMatrix(t *testing.T) {
	bm, err := ParseStringMatrix("X . X\n. X .\n", "X ", ". ")
	if err == nil {
		t.Fatalf("trailing cell without separator should not parse, got %v", bm)
	}
	bm, err = ParseStringMatrix("X.X\n.X.\n", "X", ".")
	if err != nil {
		t.Fatalf("ParseStringMatrix: %v", err)
	}
	if bm.Width() != 3 || bm.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", bm.Width(), bm.Height())
	}
	if !bm.Get(0, 0) || bm.Get(1, 0) || !bm.Get(1, 1) {
		t.Errorf("unexpected bits:\n%s", bm)
	}
	if _, err := ParseStringMatrix("XX\nX\n", "X", "."); err == nil {
		t.Error("ragged rows should fail")
	}
}

func TestBitMatrixStringRoundTrip(t *testing.T) {
	bm := NewBitMatrixWithSize(5, 3)
	bm.Set(0, 0)
	bm.Set(4, 2)
	parsed, err := ParseStringMatrix(bm.StringWithChars("#", "-"), "#", "-")
	if err != nil {
		t.Fatalf("ParseStringMatrix: %v", err)
	}
	if !parsed.Equals(bm) {
		t.Errorf("round trip mismatch:\n%s\nvs\n%s", parsed, bm)
	}
}

func TestBitMatrixClone(t *testing.T) {
	bm := NewBitMatrixWithSize(8, 8)
	bm.Set(1, 1)
	clone := bm.Clone()
	clone.Set(2, 2)
	if bm.Get(2, 2) {
		t.Error("modifying clone should not affect original")
	}
	if !clone.Get(1, 1) {
		t.Error("clone should keep original bits")
	}
}

func TestBitMatrixEquals(t *testing.T) {
	a := NewBitMatrixWithSize(4, 4)
	b := NewBitMatrixWithSize(4, 4)
	a.Set(1, 2)
	b.Set(1, 2)
	if !a.Equals(b) {
		t.Error("equal matrices should be equal")
	}
	b.Set(3, 3)
	if a.Equals(b) {
		t.Error("different matrices should not be equal")
	}
}

func TestBitMatrixOnBitCorners(t *testing.T) {
	bm := NewBitMatrixWithSize(70, 40)
	if _, _, ok := bm.TopLeftOnBit(); ok {
		t.Error("empty matrix has no top-left bit")
	}
	if _, _, ok := bm.BottomRightOnBit(); ok {
		t.Error("empty matrix has no bottom-right bit")
	}

	bm.Set(40, 3)
	bm.Set(65, 3)
	bm.Set(2, 37)
	bm.Set(50, 37)
	if x, y, ok := bm.TopLeftOnBit(); !ok || x != 40 || y != 3 {
		t.Errorf("TopLeftOnBit = (%d, %d, %v), want (40, 3, true)", x, y, ok)
	}
	if x, y, ok := bm.BottomRightOnBit(); !ok || x != 50 || y != 37 {
		t.Errorf("BottomRightOnBit = (%d, %d, %v), want (50, 37, true)", x, y, ok)
	}
}
