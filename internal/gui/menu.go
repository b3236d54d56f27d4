package gui

import "strings"

const customItem = "your own words..."

// Menu is the mood chooser state: preset names plus a free-text entry.
type Menu struct {
	items  []string
	cursor int
	typing bool
	input  []rune
}

func NewMenu(presets []string) *Menu {
	return &Menu{items: append(append([]string(nil), presets...), customItem)}
}

func (m *Menu) Items() []string { return m.items }
func (m *Menu) Cursor() int     { return m.cursor }
func (m *Menu) Typing() bool    { return m.typing }
func (m *Menu) Input() string   { return string(m.input) }

func (m *Menu) Up() {
	if !m.typing {
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	}
}

func (m *Menu) Down() {
	if !m.typing {
		m.cursor = (m.cursor + 1) % len(m.items)
	}
}

// Type appends r while the free-text entry is open.
func (m *Menu) Type(r rune) {
	if m.typing && r >= ' ' {
		m.input = append(m.input, r)
	}
}

func (m *Menu) Backspace() {
	if m.typing && len(m.input) > 0 {
		m.input = m.input[:len(m.input)-1]
	}
}

// Back leaves text entry. It reports false when there was nothing to leave.
func (m *Menu) Back() bool {
	if !m.typing {
		return false
	}
	m.typing = false
	m.input = m.input[:0]
	return true
}

// Choose returns the selected mood, or opens text entry for the custom item.
func (m *Menu) Choose() (string, bool) {
	if m.typing {
		text := strings.TrimSpace(string(m.input))
		return text, text != ""
	}
	if m.items[m.cursor] == customItem {
		m.typing = true
		return "", false
	}
	return m.items[m.cursor], true
}
