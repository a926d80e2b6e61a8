package docpipe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpuRepairer normalizes a possibly-malformed document by rebuilding its
// cross-reference table and object streams. Failure here is never fatal:
// the caller falls back to the original bytes and lets the open decide.
type pdfcpuRepairer struct {
	conf *model.Configuration
}

// NewRepairer returns the pdfcpu-backed structural repairer.
func NewRepairer() Repairer {
	conf := model.NewDefaultConfiguration()
	// Repair must accept documents that strict validation would reject.
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuRepairer{conf: conf}
}

func (r *pdfcpuRepairer) Repair(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("repair %s: %w", filepath.Base(src), err)
	}
	if err := api.OptimizeFile(src, dst, r.conf); err != nil {
		return fmt.Errorf("repair %s: %w", filepath.Base(src), err)
	}
	return nil
}
