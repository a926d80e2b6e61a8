package docpipe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpuEngine is the primary parsing engine: pure Go, structure-aware,
// validates and optimizes the cross-reference table on open.
type pdfcpuEngine struct {
	conf *model.Configuration
}

// NewPrimaryEngine returns the pdfcpu-backed primary engine.
func NewPrimaryEngine() Engine {
	return &pdfcpuEngine{conf: model.NewDefaultConfiguration()}
}

func (e *pdfcpuEngine) Open(path string) (Doc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, e.conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", filepath.Base(path), err)
	}
	return &pdfcpuDoc{path: path, ctx: ctx, conf: e.conf}, nil
}

type pdfcpuDoc struct {
	path string
	ctx  *model.Context
	conf *model.Configuration
}

func (d *pdfcpuDoc) PageCount() int { return d.ctx.PageCount }

func (d *pdfcpuDoc) PageText(pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, pageNr)
	if err != nil {
		return "", fmt.Errorf("page %d content: %w", pageNr, err)
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("page %d content: %w", pageNr, err)
	}
	return textFromContent(data), nil
}

// PageImages exports the page's image XObjects into outDir and returns the
// written file paths. Pages without image streams return (nil, nil).
func (d *pdfcpuDoc) PageImages(pageNr int, outDir string) ([]string, error) {
	if len(pdfcpu.ImageObjNrs(d.ctx, pageNr)) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("page %d images: %w", pageNr, err)
	}
	if err := api.ExtractImagesFile(d.path, outDir, []string{strconv.Itoa(pageNr)}, d.conf); err != nil {
		return nil, fmt.Errorf("page %d images: %w", pageNr, err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("page %d images: %w", pageNr, err)
	}
	var paths []string
	for _, ent := range entries {
		if !ent.IsDir() {
			paths = append(paths, filepath.Join(outDir, ent.Name()))
		}
	}
	return paths, nil
}

func (d *pdfcpuDoc) Close() error { return nil }

// pdfLiteralRe matches PDF string literals: (text)
var pdfLiteralRe = regexp.MustCompile(`\(([^)]*)\)`)

// textFromContent walks a decoded content stream and collects the text
// shown by the Tj/TJ/' operators, inserting separators on the positioning
// operators Td/TD/T*.
func textFromContent(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			// ' shows text on the next line.
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				if s := decodeLiteral(m[1]); s != "" {
					sb.WriteByte('\n')
					sb.WriteString(s)
				}
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return normalizeText(sb.String())
}

// decodeLiteral resolves the escape sequences of a PDF string literal.
func decodeLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			// Octal escape, up to three digits.
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// normalizeText collapses runs of whitespace and drops non-printable runes.
func normalizeText(text string) string {
	var sb strings.Builder
	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !space && sb.Len() > 0 {
				sb.WriteByte(' ')
				space = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(sb.String())
}
