package draw

import (
	"errors"
	"testing"
)

func TestStructureError(t *testing.T) {
	err := NewStructureError("Page1", "no Ten container")
	if got := err.Error(); got != "template structure error in Page1: no Ten container" {
		t.Errorf("Error() = %q", got)
	}
	if !IsStructureError(err) {
		t.Error("IsStructureError returned false")
	}
	if IsDocumentError(err) || IsConversionError(err) {
		t.Error("structure error misclassified")
	}

	err = NewStructureError("", "empty document")
	if got := err.Error(); got != "template structure error: empty document" {
		t.Errorf("Error() without part = %q", got)
	}
}

func TestDocumentError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewDocumentError("open", "/tmp/form.pdf", cause)
	if got := err.Error(); got != "document error during open of '/tmp/form.pdf': permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !IsDocumentError(err) {
		t.Error("IsDocumentError returned false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}

	err = NewDocumentError("serialize", "", nil)
	if got := err.Error(); got != "document error during serialize" {
		t.Errorf("Error() without path = %q", got)
	}
}

func TestConversionError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ConversionError{
		Message: "LibreOffice failed to convert the draft",
		Stderr:  "source file could not be loaded",
		Cause:   cause,
	}
	want := "conversion error: LibreOffice failed to convert the draft: source file could not be loaded: exit status 1"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !IsConversionError(err) {
		t.Error("IsConversionError returned false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}

	bare := NewConversionError("converter not installed", nil)
	if got := bare.Error(); got != "conversion error: converter not installed" {
		t.Errorf("Error() bare = %q", got)
	}
}
