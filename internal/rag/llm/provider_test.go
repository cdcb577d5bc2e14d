package llm

import (
	"errors"
	"testing"
)

func TestFinalize(t *testing.T) {
	got, err := Finalize("  Yes, data is encrypted at rest.\n")
	if err != nil || got != "Yes, data is encrypted at rest." {
		t.Errorf("Finalize = %q, %v", got, err)
	}

	if _, err := Finalize(" \n\t"); !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("blank completion error = %v; want ErrEmptyCompletion", err)
	}
}
