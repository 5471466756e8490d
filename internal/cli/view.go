package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case stateView:
		m.viewNote(&s)
	case stateSearch:
		s.WriteString("Search notes:\n\n")
		s.WriteString(m.searchInput.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("enter: done  esc: clear search"))
	case stateInput:
		m.viewInput(&s)
	case stateBody:
		n, _ := m.ed.Selected()
		s.WriteString(titleStyle.Render("Editing " + n.Title))
		s.WriteString("\n\n")
		s.WriteString(m.body.View())
		s.WriteString("\n\n")
		s.WriteString(helpStyle.Render("ctrl+s: save  esc: discard"))
	case stateConfirm:
		if d, ok := m.ed.DeleteDialog(); ok {
			s.WriteString(titleStyle.Render(d.Title()))
			s.WriteString("\n\n")
			s.WriteString(warningStyle.Render(d.Message()))
			s.WriteString("\n\n")
			s.WriteString(helpStyle.Render("y: delete  n: keep  esc: close"))
		}
	default:
		m.viewList(&s)
	}

	if m.status != "" {
		s.WriteString("\n")
		if m.failed {
			s.WriteString(errorStyle.Render(m.status))
		} else {
			s.WriteString(statusStyle.Render(m.status))
		}
	}
	return s.String()
}

func (m Model) viewList(s *strings.Builder) {
	if len(m.list.Items()) == 0 {
		s.WriteString(titleStyle.Render("Notes"))
		s.WriteString("\n\nNo notes found\n")
	} else {
		s.WriteString(m.list.View())
		s.WriteString("\n")
	}

	var filters []string
	if q := m.ed.SearchQuery(); q != "" {
		filters = append(filters, fmt.Sprintf("search: %q", q))
	}
	if tags := m.ed.SelectedTags(); len(tags) > 0 {
		filters = append(filters, "tags: "+strings.Join(tags, ", "))
	}
	if m.ed.PreviewMode() {
		filters = append(filters, "mode: preview")
	} else {
		filters = append(filters, "mode: edit")
	}
	s.WriteString(helpStyle.Render(strings.Join(filters, "  ")))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("n:new  enter:open  e:edit  r:rename  t:tag  x:untag  d:delete"))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("/:search  f:filter tag  c:clear filters  p:preview  E:export  i:import  q:quit"))
}

func (m Model) viewNote(s *strings.Builder) {
	n, ok := m.ed.Selected()
	if !ok {
		s.WriteString("No note selected\n")
		s.WriteString(helpStyle.Render("esc: back  n: new note from the list"))
		return
	}

	mode := "edit"
	if m.ed.PreviewMode() {
		mode = "preview"
	}
	s.WriteString(titleStyle.Render(n.Title))
	s.WriteString("\n")
	if len(n.Tags) > 0 {
		s.WriteString("Tags: " + strings.Join(n.Tags, ", ") + "\n")
	}
	fmt.Fprintf(s, "Updated: %s  Mode: %s\n\n", n.UpdatedAt.Local().Format(timeLayout), mode)

	body := n.Content
	if m.ed.PreviewMode() && m.renderer != nil {
		out, err := m.renderer.Render(n.Content)
		if err == nil {
			body = out
		} else {
			m.log.Warn().Err(err).Str("note_id", n.ID).Msg("preview render failed")
		}
	}
	s.WriteString(body)
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("e:edit  r:rename  t:tag  x:untag  p:preview  d:delete  esc:back  q:quit"))
}

func (m Model) viewInput(s *strings.Builder) {
	s.WriteString(inputPrompts[m.action] + ":\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")

	if m.action == inputFilter {
		all := m.ed.AllTags()
		if len(all) == 0 {
			s.WriteString("\nNo tags\n")
		} else {
			active := m.ed.SelectedTags()
			s.WriteString("\n")
			for _, t := range all {
				mark := " "
				if slices.Contains(active, t) {
					mark = "*"
				}
				fmt.Fprintf(s, "%s %s\n", mark, t)
			}
		}
	}
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: apply  esc: cancel"))
}
