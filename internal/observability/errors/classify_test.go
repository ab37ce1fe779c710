package errors

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/lowrester/Veriqko/internal/errors"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	if got := Classify(nil); got != "" {
		t.Fatalf("Classify(nil) = %q, want empty", got)
	}

	if got := Classify(errors.New("boom")); got != "errors_errorstring" {
		t.Fatalf("Classify(plain) = %q", got)
	}

	// Wrapping unwraps to the innermost cause.
	wrapped := fmt.Errorf("sweep: %w", errors.New("boom"))
	if got := Classify(wrapped); got != "errors_errorstring" {
		t.Fatalf("Classify(wrapped) = %q", got)
	}
}

func TestClassifyAppErrorUsesCode(t *testing.T) {
	t.Parallel()

	appErr := apperrors.NotFoundf("job %s not found", "job-1")
	if got := Classify(appErr); got != "not_found" {
		t.Fatalf("Classify(AppError) = %q, want not_found", got)
	}

	wrapped := fmt.Errorf("transition: %w", apperrors.PhaseCompletedf("already stamped"))
	if got := Classify(wrapped); got != "phase_completed" {
		t.Fatalf("Classify(wrapped AppError) = %q, want phase_completed", got)
	}
}
