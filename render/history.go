package render

import "promptbox/model"

// History is the ordered log of rendered prompts for one process. It is
// append-only until Clear and is not safe for concurrent use.
type History struct {
	entries []model.RenderedPrompt
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(p model.RenderedPrompt) {
	h.entries = append(h.entries, p)
}

// Entries returns a copy of the log in insertion order.
func (h *History) Entries() []model.RenderedPrompt {
	return append([]model.RenderedPrompt(nil), h.entries...)
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Last() (model.RenderedPrompt, bool) {
	if len(h.entries) == 0 {
		return model.RenderedPrompt{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Clear() {
	h.entries = nil
}
