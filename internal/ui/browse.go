package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/rules"
)

// browseState tracks which screen the browser is showing.
type browseState int

const (
	stateSections browseState = iota
	stateSection
)

// sectionItem adapts a document section to the bubbles list.
type sectionItem struct {
	sec   *model.Section
	rules int
}

func (i sectionItem) Title() string {
	return strings.Repeat("  ", i.sec.Depth()) + i.sec.Heading
}

func (i sectionItem) Description() string {
	loc := "line " + strconv.Itoa(i.sec.Line)
	if i.rules == 0 {
		return loc
	}
	return plural(i.rules, "rule") + " · " + loc
}

func (i sectionItem) FilterValue() string { return i.sec.Heading }

// Browser is the interactive section browser. The section list supports
// filtering with "/"; enter renders the selected section with glamour
// in a scrollable viewport, esc returns to the list.
type Browser struct {
	doc     *model.Document
	state   browseState
	list    list.Model
	view    viewport.Model
	current *model.Section
	width   int
	height  int
	ready   bool
}

// NewBrowser builds a browser over the document's section tree. Rule
// counts in the list come from the default extractor.
func NewBrowser(doc *model.Document) *Browser {
	counts := map[string]int{}
	if inv, err := rules.NewExtractor().Extract(doc); err == nil {
		for _, r := range inv.Rules {
			counts[r.SectionPath()]++
		}
	}

	var items []list.Item
	for _, sec := range doc.AllSections() {
		items = append(items, sectionItem{
			sec:   sec,
			rules: counts[strings.Join(sec.Path(), " > ")],
		})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = doc.Title()
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return &Browser{doc: doc, list: l}
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.list.SetSize(msg.Width-4, msg.Height-4)
		if !b.ready {
			b.view = viewport.New(msg.Width-4, msg.Height-6)
			b.ready = true
		} else {
			b.view.Width = msg.Width - 4
			b.view.Height = msg.Height - 6
		}
		if b.current != nil {
			b.view.SetContent(b.renderSection(b.current))
		}
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return b, tea.Quit
		case "q":
			if b.state == stateSections && b.list.FilterState() != list.Filtering {
				return b, tea.Quit
			}
		case "esc":
			if b.state == stateSection {
				b.state = stateSections
				b.current = nil
				return b, nil
			}
		case "enter":
			if b.state == stateSections && b.list.FilterState() != list.Filtering {
				if item, ok := b.list.SelectedItem().(sectionItem); ok {
					b.openSection(item.sec)
				}
				return b, nil
			}
		}
	}

	var cmd tea.Cmd
	if b.state == stateSections {
		b.list, cmd = b.list.Update(msg)
	} else {
		b.view, cmd = b.view.Update(msg)
	}
	return b, cmd
}

func (b *Browser) View() string {
	if !b.ready {
		return "\n  Loading..."
	}

	if b.state == stateSection && b.current != nil {
		header := headStyle.Render(strings.Join(b.current.Path(), " > "))
		footer := dimStyle.Render("esc back · ↑/↓ scroll · q quit")
		return "\n  " + header + "\n\n" + b.view.View() + "\n  " + footer + "\n"
	}

	return "\n" + b.list.View()
}

// openSection renders the section's source and switches to the section
// screen.
func (b *Browser) openSection(sec *model.Section) {
	b.current = sec
	b.view.SetContent(b.renderSection(sec))
	b.view.GotoTop()
	b.state = stateSection
}

// renderSection renders the section's markdown subtree for the
// terminal, falling back to the raw source when glamour fails.
func (b *Browser) renderSection(sec *model.Section) string {
	lines := b.doc.SourceLines()
	start := sec.Line - 1
	end := sec.SubtreeEnd()
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	src := strings.Join(lines[start:end], "\n")

	wrap := max(b.width-6, 20)
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap))
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return out
}

// Browse opens the interactive section browser and blocks until the
// user quits.
func Browse(doc *model.Document) error {
	p := tea.NewProgram(NewBrowser(doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
