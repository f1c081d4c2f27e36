package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNothingToMerge is returned by MergePDFs for an empty input.
var ErrNothingToMerge = errors.New("no PDFs to merge")

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	api.DisableConfigDir()
}

// MergePDFs concatenates PDFs in the given order.
func MergePDFs(pdfs [][]byte) ([]byte, error) {
	switch len(pdfs) {
	case 0:
		return nil, ErrNothingToMerge
	case 1:
		return pdfs[0], nil
	}

	readers := make([]io.ReadSeeker, len(pdfs))
	for i, p := range pdfs {
		readers[i] = bytes.NewReader(p)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, fmt.Errorf("merge %d PDFs: %w", len(pdfs), err)
	}
	return out.Bytes(), nil
}

// CombinedFileName is the local name of a school's merged order PDF.
func CombinedFileName(school string) string {
	return school + "_Orders_Combined.pdf"
}

// CombinedUploadName is the Drive name of a school's merged order PDF.
func CombinedUploadName(school string) string {
	return school + " Orders - Combined.pdf"
}
