package docrender

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ReplaceLastPage drops the final page of the rendered agreement and appends
// the first page of the signature template in its place. pdfcpu works on
// files, so the splice goes through a temp directory.
func ReplaceLastPage(rendered, signatureTemplate []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "agreement-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	renderedPath := filepath.Join(dir, "rendered.pdf")
	signaturePath := filepath.Join(dir, "signature.pdf")
	bodyPath := filepath.Join(dir, "body.pdf")
	signaturePagePath := filepath.Join(dir, "signature-page.pdf")
	outPath := filepath.Join(dir, "out.pdf")

	if err := os.WriteFile(renderedPath, rendered, 0o600); err != nil {
		return nil, err
	}
	if err := os.WriteFile(signaturePath, signatureTemplate, 0o600); err != nil {
		return nil, err
	}

	pages, err := api.PageCountFile(renderedPath)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	if err := api.TrimFile(signaturePath, signaturePagePath, []string{"1"}, nil); err != nil {
		return nil, fmt.Errorf("extract signature page: %w", err)
	}

	if pages <= 1 {
		// Nothing to keep from the rendered document body.
		out, err := os.ReadFile(signaturePagePath)
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	keep := fmt.Sprintf("1-%d", pages-1)
	if err := api.TrimFile(renderedPath, bodyPath, []string{keep}, nil); err != nil {
		return nil, fmt.Errorf("trim last page: %w", err)
	}

	if err := api.MergeCreateFile([]string{bodyPath, signaturePagePath}, outPath, false, nil); err != nil {
		return nil, fmt.Errorf("append signature page: %w", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, err
	}
	return out, nil
}
