package docpipe

import "log/slog"

// Config configures the extraction pipeline.
type Config struct {
	// MaxFileSize is the maximum document size to process (default: 100 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// ImageDir receives raster images exported during OCR enrichment,
	// under <ImageDir>/<doc-key>/page_<n>/ where doc-key combines the
	// document stem with a hash of its full path (default: "images").
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// RepairDir receives repaired document copies, keyed like ImageDir so
	// same-named documents from different directories never collide
	// (default: "repair"). Never the source directory.
	RepairDir string `json:"repair_dir" yaml:"repair_dir"`

	// KeepRepaired preserves repaired copies after a document's task ends.
	// Default: removed.
	KeepRepaired bool `json:"keep_repaired" yaml:"keep_repaired"`

	// NoRepair, NoFallback, NoOCR and NoTables switch off the optional
	// stages. OCR is additionally subject to a Tesseract probe at startup.
	NoRepair   bool `json:"no_repair" yaml:"no_repair"`
	NoFallback bool `json:"no_fallback" yaml:"no_fallback"`
	NoOCR      bool `json:"no_ocr" yaml:"no_ocr"`
	NoTables   bool `json:"no_tables" yaml:"no_tables"`

	// OCRLanguage is the Tesseract language to use ("" = engine default).
	OCRLanguage string `json:"ocr_language" yaml:"ocr_language"`

	// Logger for debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.ImageDir == "" {
		c.ImageDir = "images"
	}
	if c.RepairDir == "" {
		c.RepairDir = "repair"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
