package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/moodcanvas/internal/mood"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const customEntry = "your own words…"

// Picker lists presets and accepts free text. Choosing an entry hands the
// program over to a player for that mood.
type Picker struct {
	opts     Options
	resolver *mood.Resolver
	names    []string
	cursor   int
	typing   bool
	input    []rune
}

func NewPicker(opts Options) Picker {
	r := opts.Resolver
	if r == nil {
		r = mood.Default
	}
	return Picker{
		opts:     opts,
		resolver: r,
		names:    append(r.Names(), customEntry),
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.opts.Width, p.opts.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		if p.typing {
			return p.updateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case "up", "k":
			p.cursor = (p.cursor - 1 + len(p.names)) % len(p.names)
		case "down", "j":
			p.cursor = (p.cursor + 1) % len(p.names)
		case "enter":
			if p.names[p.cursor] == customEntry {
				p.typing = true
				return p, nil
			}
			return p.play(p.names[p.cursor])
		}
	}
	return p, nil
}

func (p Picker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return p, tea.Quit
	case tea.KeyEsc:
		p.typing = false
	case tea.KeyEnter:
		text := strings.TrimSpace(string(p.input))
		if text == "" {
			return p, nil
		}
		return p.play(text)
	case tea.KeyBackspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case tea.KeySpace:
		p.input = append(p.input, ' ')
	case tea.KeyRunes:
		p.input = append(p.input, msg.Runes...)
	}
	return p, nil
}

func (p Picker) play(text string) (tea.Model, tea.Cmd) {
	opts := p.opts
	opts.Mood = text
	opts.Resolver = p.resolver
	m := NewModel(opts)
	return m, m.Init()
}

func (p Picker) View() string {
	var s strings.Builder
	s.WriteString(cyan.Bold(true).Render("how do you feel?") + "\n\n")

	for i, name := range p.names {
		cursor := "  "
		style := dim
		if i == p.cursor {
			cursor = cyan.Render("> ")
			style = white
		}
		line := style.Render(name)
		if spec, ok := p.resolver.Lookup(name); ok {
			line += "  " + Swatch(spec.Palette) + "  " + dimmer.Render(spec.Motion.String())
		}
		s.WriteString(cursor + line + "\n")
	}

	if p.typing {
		s.WriteString("\n" + white.Render("mood: "+string(p.input)) + cyan.Render("█") + "\n")
		s.WriteString(dimmer.Render("enter play  esc back") + "\n")
	} else {
		s.WriteString("\n" + dimmer.Render("↑/↓ choose  enter play  q quit") + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}

// RunPicker shows the mood menu, then plays the chosen mood.
func RunPicker(opts Options) error {
	p := tea.NewProgram(NewPicker(opts), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.Session().Stop()
	}
	return err
}
