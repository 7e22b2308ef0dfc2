package monolearn

import "testing"

func TestLitNegate(t *testing.T) {
	l := Lit{name: "x0"}
	n := l.Negate()
	if n.Name() != "x0" {
		t.Fatalf("Negate must preserve the variable name")
	}
	if !n.Negated() || l.Negated() {
		t.Fatalf("Negate must flip the sign exactly once")
	}
	if n.Negate().Negated() {
		t.Fatalf("double negation must return to the original sign")
	}
}

func TestAssignmentVector(t *testing.T) {
	a := Assignment{
		xVarName(0): true,
		xVarName(1): false,
		xVarName(2): true,
	}
	got := a.Vector(3)
	want := NewSparseSet(0, 2)
	if !got.Equal(want) {
		t.Fatalf("Vector(3) = %v, want %v", got, want)
	}
	if !a.True(0) || a.True(1) || !a.True(2) {
		t.Fatalf("True(i) disagrees with the map contents")
	}
}

func TestAssignmentVectorMissingKeysAreFalse(t *testing.T) {
	a := Assignment{xVarName(1): true}
	got := a.Vector(3)
	if !got.Equal(NewSparseSet(1)) {
		t.Fatalf("Vector(3) = %v, want {1} (unset variables default false)", got)
	}
}
