// Package scanparam reconciles the scan's max-pages value across two
// redundant input widgets. There is exactly one canonical bounded
// integer; the text field and the slider are adapters that propose
// edits into it and are both refreshed from it.
package scanparam

import "strconv"

const (
	Min = 1
	Max = 50
)

// Normalizer holds the canonical max-pages value plus the transient
// text-field contents, which may be empty or out of range while the
// user is mid-entry.
type Normalizer struct {
	value int    // canonical, always in [Min,Max]
	text  string // what the text field currently shows
}

func New() *Normalizer {
	n := &Normalizer{value: Max}
	n.text = strconv.Itoa(n.value)
	return n
}

func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// Text returns the current text-field contents.
func (n *Normalizer) Text() string { return n.text }

// Slider returns the slider position, which always tracks the
// canonical value.
func (n *Normalizer) Slider() int { return n.value }

// SetText accepts a keystroke-level edit. Only digit characters are
// kept; the field may be empty (not yet resolved). A parsable value
// moves the slider, but nothing is clamped mid-entry so the control
// never fights the user.
func (n *Normalizer) SetText(s string) {
	filtered := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			filtered = append(filtered, s[i])
		}
	}
	n.text = string(filtered)
	if v, err := strconv.Atoi(n.text); err == nil {
		n.value = Clamp(v)
	}
}

// SetSlider accepts a slider edit: the value is clamped and written
// back into the text field immediately.
func (n *Normalizer) SetSlider(v int) {
	n.value = Clamp(v)
	n.text = strconv.Itoa(n.value)
}

// Blur resolves the text field: empty falls back to the slider's last
// value, anything parsed is clamped, and both widgets resync.
func (n *Normalizer) Blur() {
	if n.text == "" {
		n.text = strconv.Itoa(n.value)
		return
	}
	if v, err := strconv.Atoi(n.text); err == nil {
		n.value = Clamp(v)
	}
	n.text = strconv.Itoa(n.value)
}

// Effective re-derives the value to transmit, independent of widget
// state. The submission path calls this immediately before firing the
// request; it never trusts previously committed state alone.
func (n *Normalizer) Effective() int {
	if v, err := strconv.Atoi(n.text); err == nil {
		return Clamp(v)
	}
	return Clamp(n.value)
}
