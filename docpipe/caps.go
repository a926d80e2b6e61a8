package docpipe

// Capabilities holds the pipeline's optional collaborators. A nil field
// means the capability is absent for the whole run; stages test their field
// once instead of re-probing per call.
type Capabilities struct {
	Repairer   Repairer
	Fallback   Engine
	Recognizer Recognizer
	Tables     TableEngine
}

// Probe constructs the run's capabilities once at startup. Repair, fallback
// parsing and table recovery are compiled in and controlled by config;
// recognition additionally requires a usable Tesseract installation.
func Probe(cfg Config) Capabilities {
	cfg.defaults()

	var caps Capabilities
	if !cfg.NoRepair {
		caps.Repairer = NewRepairer()
	}
	if !cfg.NoFallback {
		caps.Fallback = NewFallbackEngine()
	}
	if !cfg.NoOCR {
		caps.Recognizer = NewRecognizer(cfg.OCRLanguage)
		if caps.Recognizer == nil {
			cfg.Logger.Warn("no usable tesseract installation, recognition disabled")
		}
	}
	if !cfg.NoTables {
		caps.Tables = NewTableEngine()
	}
	return caps
}

// Missing names the absent capabilities, for end-of-run advisories.
func (c Capabilities) Missing() []string {
	var out []string
	if c.Repairer == nil {
		out = append(out, "repair")
	}
	if c.Fallback == nil {
		out = append(out, "fallback")
	}
	if c.Recognizer == nil {
		out = append(out, "ocr")
	}
	if c.Tables == nil {
		out = append(out, "tables")
	}
	return out
}
