package tensor

import (
	"errors"
	"math"
	"testing"
)

func TestNewZeroInitialized(t *testing.T) {
	b, err := New(Shape{2, 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if b.NumElements() != 6 {
		t.Errorf("NumElements = %d, want 6", b.NumElements())
	}
	if b.Rank() != 2 {
		t.Errorf("Rank = %d, want 2", b.Rank())
	}
	for i, v := range b.Data() {
		if v != 0 {
			t.Errorf("Data[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewInvalidShape(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
	}{
		{"empty", Shape{}},
		{"zero dim", Shape{3, 0}},
		{"negative dim", Shape{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.shape)
			if !errors.Is(err, ErrShape) {
				t.Errorf("New(%v) error = %v, want ErrShape", tt.shape, err)
			}
		})
	}
}

func TestShapeImmutable(t *testing.T) {
	shape := Shape{4}
	b, _ := New(shape)

	shape[0] = 99
	got := b.Shape()
	got[0] = 42

	if b.Dim(0) != 4 {
		t.Errorf("Dim(0) = %d, want 4", b.Dim(0))
	}
}

func TestViewAliasesStorage(t *testing.T) {
	b, _ := New(Shape{2, 3})

	row, err := b.View(3, Shape{3})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !row.IsView() {
		t.Error("IsView = false, want true")
	}

	row.Data()[0] = 5
	if b.Data()[3] != 5 {
		t.Errorf("parent Data[3] = %v, want 5 (view must alias)", b.Data()[3])
	}
}

func TestViewBounds(t *testing.T) {
	b, _ := New(Shape{4})

	tests := []struct {
		name   string
		offset int
		shape  Shape
	}{
		{"past end", 2, Shape{3}},
		{"negative offset", -1, Shape{1}},
		{"too large", 0, Shape{5}},
		{"offset overflows", math.MaxInt, Shape{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.View(tt.offset, tt.shape)
			if !errors.Is(err, ErrBounds) {
				t.Errorf("View(%d, %v) error = %v, want ErrBounds", tt.offset, tt.shape, err)
			}
		})
	}
}

func TestViewCannotGrowPastRegion(t *testing.T) {
	b, _ := New(Shape{4})
	v, _ := b.View(0, Shape{2})

	if cap(v.Data()) != 2 {
		t.Errorf("cap(view) = %d, want 2", cap(v.Data()))
	}
}

func TestCopyFrom(t *testing.T) {
	src, _ := FromSlice([]float32{1, 2, 3}, Shape{3})
	dst, _ := New(Shape{3})

	if err := dst.CopyFrom(src); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	for i, want := range []float32{1, 2, 3} {
		if dst.Data()[i] != want {
			t.Errorf("Data[%d] = %v, want %v", i, dst.Data()[i], want)
		}
	}
}

func TestCopyFromShapeMismatch(t *testing.T) {
	src, _ := New(Shape{1, 3})
	dst, _ := New(Shape{3})
	dst.Fill(7)

	err := dst.CopyFrom(src)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("CopyFrom error = %v, want ErrShapeMismatch", err)
	}
	if dst.Data()[0] != 7 {
		t.Error("failed CopyFrom must not modify the destination")
	}

	if err := dst.CopyFromSlice([]float32{1, 2}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("CopyFromSlice error = %v, want ErrShapeMismatch", err)
	}
}

func TestCopyFromDoesNotAllocate(t *testing.T) {
	src, _ := New(Shape{64})
	dst, _ := New(Shape{64})

	allocs := testing.AllocsPerRun(100, func() {
		_ = dst.CopyFrom(src)
	})
	if allocs != 0 {
		t.Errorf("CopyFrom allocated %v times per run, want 0", allocs)
	}
}

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	if got := s.NumElements(); got != 24 {
		t.Errorf("NumElements() = %d, want 24", got)
	}
	if got := (Shape{}).NumElements(); got != 0 {
		t.Errorf("empty NumElements() = %d, want 0", got)
	}

	c := s.Clone()
	c[0] = 9
	if s[0] != 2 {
		t.Error("Clone shares storage with the original")
	}
	if s.Equal(c) || !s.Equal(Shape{2, 3, 4}) {
		t.Errorf("Equal misreports %v vs %v", s, c)
	}
	if got := s.String(); got != "[2 3 4]" {
		t.Errorf("String() = %q, want [2 3 4]", got)
	}
}
