package docpipe

// PageState enumerates the page extraction state machine.
//
//	StatePrimary → StateDone                        primary succeeded
//	StatePrimary → StateFallback → StateDone        fallback succeeded
//	StatePrimary → StateFallback → StateSkipped     both failed
//	StatePrimary → StateSkipped                     primary failed, no fallback
type PageState int

const (
	// StatePrimary is the initial state: primary extraction pending.
	StatePrimary PageState = iota
	// StateFallback: primary failed, fallback extraction pending.
	StateFallback
	// StateDone is terminal: the page has text (possibly empty).
	StateDone
	// StateSkipped is terminal: the page's text is lost for this run.
	StateSkipped
)

func (s PageState) String() string {
	switch s {
	case StatePrimary:
		return "primary"
	case StateFallback:
		return "fallback"
	case StateDone:
		return "done"
	case StateSkipped:
		return "skipped"
	}
	return "unknown"
}

// pageExtraction is the outcome of driving one page through the machine.
type pageExtraction struct {
	state       PageState // terminal: StateDone or StateSkipped
	text        string
	viaFallback bool
	primaryErr  error
	fallbackErr error
}

// failure describes a skipped page, combining both attempts' errors.
func (p pageExtraction) failure() string {
	msg := p.primaryErr.Error()
	if p.fallbackErr != nil {
		msg += " / " + p.fallbackErr.Error()
	}
	return msg
}

// extractPage runs the state machine for one page. openFallback returns the
// document's fallback handle, or nil when the capability is absent; it is
// only invoked after a primary failure.
func extractPage(primary Doc, openFallback func() Doc, pageNr int) pageExtraction {
	ext := pageExtraction{state: StatePrimary}

	for {
		switch ext.state {
		case StatePrimary:
			text, err := primary.PageText(pageNr)
			if err == nil {
				ext.text = text
				ext.state = StateDone
				break
			}
			ext.primaryErr = err
			ext.state = StateFallback

		case StateFallback:
			fb := openFallback()
			if fb == nil {
				ext.state = StateSkipped
				break
			}
			text, err := fb.PageText(pageNr)
			if err != nil {
				ext.fallbackErr = err
				ext.state = StateSkipped
				break
			}
			ext.text = text
			ext.viaFallback = true
			ext.state = StateDone

		default:
			return ext
		}
	}
}
