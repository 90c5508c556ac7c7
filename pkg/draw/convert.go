package draw

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Converter hands a filled draft to LibreOffice for conversion into
// final fixed-layout PDF output. The converter is an external
// collaborator: its failure degrades the result (the DOCX stays usable),
// it never corrupts it.
type Converter struct {
	binary string
	logger *zap.Logger
}

// NewConverter locates the LibreOffice binary, honoring cfg.SofficePath
// when set and falling back to soffice/libreoffice on PATH.
func NewConverter(cfg *Config, logger *zap.Logger) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	binary := cfg.SofficePath
	if binary == "" {
		for _, candidate := range []string{"soffice", "libreoffice"} {
			if located, err := exec.LookPath(candidate); err == nil {
				binary = located
				break
			}
		}
	}
	if binary == "" {
		return nil, NewConversionError("LibreOffice (soffice) is not installed or not on PATH", nil)
	}

	return &Converter{
		binary: binary,
		logger: logger,
	}, nil
}

// ConvertToPDF converts the DOCX at docxPath into a PDF at outputPath.
// LibreOffice writes into a private work directory first, so a failed
// conversion leaves outputPath untouched.
func (c *Converter) ConvertToPDF(ctx context.Context, docxPath, outputPath string) error {
	workDir := filepath.Join(os.TempDir(), "mr20-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return NewConversionError("failed to create work directory", err)
	}
	defer os.RemoveAll(workDir)

	cmd := exec.CommandContext(ctx, c.binary,
		"--headless", "--convert-to", "pdf", "--outdir", workDir, docxPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("invoking converter",
		zap.String("binary", c.binary),
		zap.String("input", docxPath))

	if err := cmd.Run(); err != nil {
		return &ConversionError{
			Message: "LibreOffice failed to convert the draft",
			Stderr:  strings.TrimSpace(stderr.String()),
			Cause:   err,
		}
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	produced := filepath.Join(workDir, base+".pdf")
	data, err := os.ReadFile(produced)
	if err != nil {
		return NewConversionError("LibreOffice did not produce a PDF output", err)
	}

	if err := writeFileAtomic(outputPath, data); err != nil {
		return NewConversionError("failed to write converted PDF", err)
	}
	return nil
}
