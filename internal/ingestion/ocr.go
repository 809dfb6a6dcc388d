package ingestion

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// rasterDPI is the resolution used when rendering PDF pages for OCR.
const rasterDPI = 300

// ocrImageFile runs tesseract over a single image file.
func ocrImageFile(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// rasterAndOCRPage renders one PDF page to PNG with pdftoppm (poppler) and
// OCRs the result.
func (e *Extractor) rasterAndOCRPage(path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "nyayai-ocr")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	pageArg := strconv.Itoa(page)
	cmd := exec.Command("pdftoppm", "-png", "-r", strconv.Itoa(rasterDPI), "-f", pageArg, "-l", pageArg, path, prefix)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm convert failed: %w", err)
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", err
	}

	var combined strings.Builder
	for _, m := range matches {
		t, err := e.ocrImage(m)
		if err != nil {
			continue
		}
		combined.WriteString(t)
		combined.WriteString("\n")
	}
	return strings.TrimSpace(combined.String()), nil
}
