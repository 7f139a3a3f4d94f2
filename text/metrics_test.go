package text

import (
	"errors"
	"testing"
)

func TestProposeCellSize(t *testing.T) {
	fam, err := GoMono()
	if err != nil {
		t.Fatal(err)
	}

	small, err := ProposeCellSize(fam, 12, "en")
	if err != nil {
		t.Fatalf("ProposeCellSize(12) error = %v", err)
	}
	large, err := ProposeCellSize(fam, 24, "en")
	if err != nil {
		t.Fatalf("ProposeCellSize(24) error = %v", err)
	}

	if small.X <= 0 || small.Y <= 0 {
		t.Fatalf("ProposeCellSize(12) = %v, want positive", small)
	}
	if small.Y <= small.X {
		t.Errorf("cell %v should be taller than wide", small)
	}
	if large.X < small.X || large.Y < small.Y {
		t.Errorf("cell at 24px %v smaller than at 12px %v", large, small)
	}
}

func TestProposeCellSizeLocaleIndependent(t *testing.T) {
	fam, err := GoMono()
	if err != nil {
		t.Fatal(err)
	}
	en, err := ProposeCellSize(fam, 16, "")
	if err != nil {
		t.Fatal(err)
	}
	de, err := ProposeCellSize(fam, 16, "de")
	if err != nil {
		t.Fatal(err)
	}
	if en != de {
		t.Errorf("cell size depends on locale: en=%v de=%v", en, de)
	}
}

func TestProposeCellSizeInvalid(t *testing.T) {
	fam, err := GoMono()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ProposeCellSize(fam, -1, "en"); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("ProposeCellSize(-1) error = %v, want ErrInvalidSize", err)
	}
}
