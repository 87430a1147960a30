// Package picker is an interactive terminal host for a bookmark session:
// the query is typed into an input line and results are re-ranked on every
// keystroke.
package picker

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bm-launcher/internal/model"
	"github.com/nikbrunner/bm-launcher/internal/session"
)

// Lines taken by everything but the result list: padding, prompt, blank
// line, status and footer.
const chromeLines = 6

// Picker is a bubbletea model driving a session.
type Picker struct {
	sess   *session.Session
	out    *session.Collector
	input  textinput.Model
	keys   KeyMap
	styles Styles

	entries []session.Entry
	cursor  int
	offset  int
	width   int
	height  int

	status    string
	statusErr bool

	selected  *model.Record
	cancelled bool
	err       error

	copy func(string) error
}

// New creates a Picker over sess, starting with query. The session should
// have an empty keyword so every input is a query.
func New(sess *session.Session, query string) Picker {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "search bookmarks"
	input.SetValue(query)
	input.Focus()

	p := Picker{
		sess:   sess,
		out:    &session.Collector{},
		input:  input,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		width:  80,
		height: 24,
		copy:   clipboard.WriteAll,
	}
	p.search()
	return p
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.input.Width = max(msg.Width-8, 1)
		p.scroll()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Open):
			return p.open()

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			p.scroll()
			return p, nil

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.entries)-1 {
				p.cursor++
			}
			p.scroll()
			return p, nil

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
			p.scroll()
			return p, nil

		case key.Matches(msg, p.keys.Bottom):
			p.cursor = max(len(p.entries)-1, 0)
			p.scroll()
			return p, nil

		case key.Matches(msg, p.keys.YankURL):
			p.yankURL()
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.search()
	}
	return p, cmd
}

// search re-runs the query and resets the cursor.
func (p *Picker) search() {
	p.out.Reset()
	if err := p.sess.Search(p.out, p.input.Value()); err != nil {
		p.setStatus(err.Error(), true)
		return
	}
	p.entries = p.out.Entries
	p.cursor = 0
	p.offset = 0
}

func (p Picker) open() (tea.Model, tea.Cmd) {
	if len(p.entries) == 0 {
		return p, nil
	}

	entry := p.entries[p.cursor]
	done, err := p.sess.Activate(p.out, entry.ID)
	if !done {
		if err != nil {
			p.setStatus(err.Error(), true)
		}
		return p, nil
	}

	p.selected = &model.Record{Label: entry.Name, Target: entry.Description}
	p.err = err
	return p, tea.Quit
}

func (p *Picker) yankURL() {
	if len(p.entries) == 0 {
		return
	}
	url := p.entries[p.cursor].Description
	if err := p.copy(url); err != nil {
		p.setStatus(fmt.Sprintf("copy failed: %v", err), true)
		return
	}
	p.setStatus("Copied "+url, false)
}

func (p *Picker) setStatus(msg string, isErr bool) {
	p.status = msg
	p.statusErr = isErr
}

// visibleRows is how many results fit on screen, two lines each.
func (p Picker) visibleRows() int {
	return max((p.height-chromeLines)/2, 1)
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	rows := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder
	contentWidth := max(p.width-6, 10)

	// Header
	count := p.styles.Count.Render(fmt.Sprintf("%d/%d", len(p.entries), p.sess.Len()))
	b.WriteString(p.styles.Prompt.Render(p.input.View()))
	b.WriteString("  ")
	b.WriteString(count)
	b.WriteString("\n\n")

	// Results
	if len(p.entries) == 0 {
		b.WriteString(p.styles.Empty.Render("No bookmarks"))
		b.WriteString("\n")
	}
	end := min(p.offset+p.visibleRows(), len(p.entries))
	for i := p.offset; i < end; i++ {
		entry := p.entries[i]
		name := entry.Name
		if name == "" {
			name = entry.Description
		}
		name = truncate(name, contentWidth)

		style := p.styles.Item
		if i == p.cursor {
			style = p.styles.ItemSelected
		}
		b.WriteString(style.Render(name))
		b.WriteString("\n")
		b.WriteString(p.styles.URL.Render(truncate(entry.Description, contentWidth-2)))
		b.WriteString("\n")
	}

	// Status
	b.WriteString("\n")
	if p.status != "" {
		style := p.styles.Status
		if p.statusErr {
			style = p.styles.Error
		}
		b.WriteString(style.Render(truncate(p.status, contentWidth)))
	}
	b.WriteString("\n")

	// Footer
	b.WriteString(p.renderHints(contentWidth))

	return p.styles.App.Render(b.String())
}

// renderHints lays out the key hints, dropping those that do not fit.
func (p Picker) renderHints(width int) string {
	var parts []string
	used := 0
	for _, binding := range p.keys.hints() {
		help := binding.Help()
		hint := p.styles.HintKey.Render(help.Key) + " " + p.styles.HintDesc.Render(help.Desc)
		hintLen := visibleLength(hint)
		if used > 0 {
			hintLen += 2
		}
		if used+hintLen > width {
			break
		}
		parts = append(parts, hint)
		used += hintLen
	}
	return strings.Join(parts, "  ")
}

// Selected returns the opened bookmark. It reports false when the picker
// was cancelled or nothing was opened.
func (p Picker) Selected() (model.Record, bool) {
	if p.cancelled || p.selected == nil {
		return model.Record{}, false
	}
	return *p.selected, true
}

// Cancelled returns true if the user cancelled the picker.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

// Err returns the opener's error after an activation.
func (p Picker) Err() error {
	return p.err
}

// Run shows the picker on the terminal and returns its final state.
func Run(sess *session.Session, query string, opts ...tea.ProgramOption) (Picker, error) {
	final, err := tea.NewProgram(New(sess, query), opts...).Run()
	if err != nil {
		return Picker{}, err
	}
	return final.(Picker), nil
}
