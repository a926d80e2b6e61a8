package docpipe

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// tesseractRecognizer runs image-to-text recognition through the system
// Tesseract installation. The engine holds non-shareable internal state, so
// a fresh client is created per image.
type tesseractRecognizer struct {
	lang string
}

// NewRecognizer returns the Tesseract-backed recognizer, or nil when no
// usable Tesseract installation is present.
func NewRecognizer(lang string) Recognizer {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil || len(langs) == 0 {
		return nil
	}
	return &tesseractRecognizer{lang: lang}
}

func (t *tesseractRecognizer) Recognize(imgPath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if t.lang != "" {
		if err := client.SetLanguage(t.lang); err != nil {
			return "", fmt.Errorf("ocr language %s: %w", t.lang, err)
		}
	}
	if err := client.SetImage(imgPath); err != nil {
		return "", fmt.Errorf("ocr %s: %w", imgPath, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", imgPath, err)
	}
	return text, nil
}
