package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ancestree/ancestree/pkg/kin"
	"github.com/ancestree/ancestree/pkg/layout"
	"github.com/ancestree/ancestree/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorBright)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// inspectCommand creates the inspect command, an interactive person browser.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [family.json|csv-dir]",
		Short: "Browse the family tree interactively",
		Long: `Browse the family tree interactively.

People are listed in generation order with their life span. The detail
pane shows parents, spouses, and children of the selected person.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}

	return cmd
}

// runInspect loads the tree and starts the browser.
func (c *CLI) runInspect(input string) error {
	opts, err := c.newOptions(input)
	if err != nil {
		return err
	}

	tree, _, err := pipeline.Load(opts)
	if err != nil {
		return err
	}
	if tree.PersonCount() == 0 {
		printInfo("No people to inspect")
		return nil
	}

	model := newPersonListModel(tree, opts.Spacing)
	_, err = tea.NewProgram(model).Run()
	return err
}

// =============================================================================
// PersonListModel - Interactive person browser
// =============================================================================

// personEntry is one row of the browser list.
type personEntry struct {
	person     kin.Person
	generation int
}

// PersonListModel is the bubbletea model for browsing people.
type PersonListModel struct {
	tree    *kin.Tree
	entries []personEntry
	cursor  int
	height  int
	offset  int
}

// newPersonListModel builds the browser over a computed layout, so the list
// can show the generation each person landed in.
func newPersonListModel(tree *kin.Tree, spacing layout.Spacing) PersonListModel {
	res := layout.Compute(tree, spacing)

	entries := make([]personEntry, 0, tree.PersonCount())
	for _, p := range tree.People() {
		entries = append(entries, personEntry{
			person:     p,
			generation: res.Generations[p.ID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].generation != entries[j].generation {
			return entries[i].generation < entries[j].generation
		}
		return entries[i].person.ID < entries[j].person.ID
	})

	return PersonListModel{
		tree:    tree,
		entries: entries,
		height:  15,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Family Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("%s%-28s %s", cursor, displayName(e.person),
			listDimStyle.Render(fmt.Sprintf("gen %d  %s", e.generation, lifeSpan(e.person))))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())

	return b.String()
}

// detailView renders the relations of the selected person.
func (m PersonListModel) detailView() string {
	e := m.entries[m.cursor]
	p := e.person

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(displayName(p)))
	b.WriteString("\n")

	if father, ok := m.tree.Person(p.FatherID); ok {
		b.WriteString(listDimStyle.Render("  father  ") + displayName(father) + "\n")
	}
	if mother, ok := m.tree.Person(p.MotherID); ok {
		b.WriteString(listDimStyle.Render("  mother  ") + displayName(mother) + "\n")
	}

	for _, marriage := range m.tree.MarriagesOf(p.ID) {
		if spouse, ok := m.tree.Person(marriage.OtherSpouse(p.ID)); ok {
			label := "  spouse  "
			if !marriage.IsActive() {
				label = "  ex-spouse "
			}
			b.WriteString(listDimStyle.Render(label) + displayName(spouse) + "\n")
		}
	}

	for _, childID := range m.tree.Children(p.ID) {
		if child, ok := m.tree.Person(childID); ok {
			b.WriteString(listDimStyle.Render("  child   ") + displayName(child) + "\n")
		}
	}

	return b.String()
}

// displayName returns the person's name, or a placeholder for nameless records.
func displayName(p kin.Person) string {
	if name := p.FullName(); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", p.ID)
}

// lifeSpan formats birth and death years for the list row.
func lifeSpan(p kin.Person) string {
	switch {
	case p.Birth.Year != 0 && p.Death.Year != 0:
		return fmt.Sprintf("%d–%d", p.Birth.Year, p.Death.Year)
	case p.Birth.Year != 0:
		return fmt.Sprintf("*%d", p.Birth.Year)
	case p.Death.Year != 0:
		return fmt.Sprintf("†%d", p.Death.Year)
	default:
		return ""
	}
}
