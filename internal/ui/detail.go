package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/lookup"
	"github.com/litescript/ls-skymap/internal/nav"
	"github.com/litescript/ls-skymap/internal/richtext"
	"github.com/litescript/ls-skymap/internal/sky"
)

var (
	detailTitleStyle = lipgloss.NewStyle().Bold(true)
	detailDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	detailLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	detailCursor     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	detailRefStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
)

// refreshDetail re-renders the sidebar when what it shows has changed.
func (m *Model) refreshDetail() {
	key := m.detailStateKey()
	if key == m.detailKey {
		return
	}
	prevTarget := targetOf(m.detailKey)
	m.detailKey = key

	var content string
	m.refs = nil
	switch s := m.nav.State().(type) {
	case nav.Searching:
		content = m.renderSearching(s)
	case nav.Focused:
		content, m.refs = m.renderFocused(s)
	default:
		content = m.renderIdle()
	}
	m.detail.SetContent(content)
	if targetOf(key) != prevTarget {
		m.detail.GotoTop()
	}
}

// detailStateKey identifies everything the sidebar content depends on. The
// first field is the shown target so a change of target can be detected.
func (m *Model) detailStateKey() string {
	var target, extra string
	switch s := m.nav.State().(type) {
	case nav.Searching:
		target = "search"
		extra = fmt.Sprintf("%s/%d", s.Query, m.cursor)
	case nav.Focused:
		target = s.Target.ID
		extra = fmt.Sprintf("%s/%t", s.Document.Ref, s.DocumentLoaded)
	default:
		target = "idle"
	}
	return fmt.Sprintf("%s|%s|%d|%t|%t", target, extra, m.detail.Width, m.nav.Browsing(), m.nav.Pending())
}

func targetOf(key string) string {
	target, _, _ := strings.Cut(key, "|")
	return target
}

func (m *Model) renderIdle() string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render("今日之星"))
	b.WriteString("\n\n")
	if !m.hasFeatured {
		b.WriteString(detailDimStyle.Render("No stars in catalog"))
		return b.String()
	}
	st := m.featured
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(st.Color.Hex())).Bold(true).Render(st.Name))
	if st.ProperName != "" {
		b.WriteString(" " + detailDimStyle.Render(st.ProperName))
	}
	b.WriteString("\n")
	b.WriteString(detailDimStyle.Render(fmt.Sprintf("RA %s  Dec %s", sky.FormatRA(st.Coord.Lon), sky.FormatDec(st.Coord.Lat))))
	b.WriteString("\n\n")
	b.WriteString(detailLabelStyle.Render("press f to locate"))
	if m.nav.Browsing() {
		b.WriteString("\n\n" + detailLabelStyle.Render("browsing: press b to return"))
	}
	return b.String()
}

func (m *Model) renderSearching(s nav.Searching) string {
	var b strings.Builder
	cands := s.Candidates()
	if len(cands) == 0 {
		b.WriteString(detailDimStyle.Render(fmt.Sprintf("No match for %q", s.Query)))
		return b.String()
	}

	for i, c := range cands {
		line := fmt.Sprintf("%s %s", c.Name, detailLabelStyle.Render(c.Kind.Label()))
		if i == m.cursor {
			b.WriteString(detailCursor.Render("▸ ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	more := (s.StarMatches - len(s.Stars)) + (s.ConstMatches - len(s.Constellations))
	if more > 0 {
		b.WriteString(detailDimStyle.Render(fmt.Sprintf("  +%d more", more)))
		b.WriteString("\n")
	}
	b.WriteString("\n" + detailLabelStyle.Render("enter focus · ↑↓ choose"))
	return b.String()
}

func (m *Model) renderFocused(s nav.Focused) (string, []richtext.Ref) {
	var b strings.Builder
	b.WriteString(renderTarget(s.Target))

	if m.nav.Pending() {
		b.WriteString("\n" + detailDimStyle.Render("Locating…"))
		return b.String(), nil
	}
	if !s.DocumentLoaded {
		b.WriteString("\n" + detailDimStyle.Render("Loading…"))
		return b.String(), nil
	}

	md, refs := documentMarkdown(s.Document)
	if md == "" {
		return b.String(), nil
	}
	b.WriteString("\n")
	if m.renderer != nil {
		out, err := m.renderer.RenderMarkdown(md)
		if err != nil {
			m.log.Warn("render %s: %v", s.Document.Ref, err)
			b.WriteString(md)
		} else {
			b.WriteString(strings.Trim(out, "\n"))
		}
	} else {
		b.WriteString(md)
	}

	if len(refs) > 0 {
		b.WriteString("\n\n")
		for i, r := range refs {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(detailRefStyle.Render(fmt.Sprintf("[%d] %s", i+1, r.Name)))
		}
	}
	return b.String(), refs
}

func renderTarget(d lookup.ObjectDetail) string {
	color := d.Level.Hex()
	if d.Kind == catalog.KindStar {
		color = d.Color.Hex()
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(d.Name))
	b.WriteString(" " + detailLabelStyle.Render(d.Kind.Label()))
	b.WriteString("\n")
	b.WriteString(detailDimStyle.Render(fmt.Sprintf("RA %s  Dec %s", sky.FormatRA(d.Coord.Lon), sky.FormatDec(d.Coord.Lat))))
	b.WriteString("\n")

	if d.Kind == catalog.KindStar {
		var facts []string
		if d.Constellation != "" {
			facts = append(facts, d.Constellation)
		}
		if d.ProperName != "" {
			facts = append(facts, d.ProperName)
		}
		facts = append(facts, d.Color.Name())
		b.WriteString(detailDimStyle.Render(strings.Join(facts, " · ")))
		b.WriteString("\n")
	}
	return b.String()
}

// leadHeading labels the rhymed verse that leads every document.
const leadHeading = "步天歌"

// documentMarkdown converts a document to Markdown. The lead is quoted under
// its own heading and each body section is headed by its type, except plain
// paragraphs and runs of the same type. Cross-references are numbered across
// the whole document.
func documentMarkdown(doc lookup.Document) (string, []richtext.Ref) {
	var parts []string
	var refs []richtext.Ref

	if lead, ok := doc.Lead(); ok {
		var md string
		md, refs = richtext.ToMarkdownFrom(lead.Text, refs)
		if md = strings.TrimSpace(md); md != "" {
			parts = append(parts, "### "+leadHeading, "> "+strings.ReplaceAll(md, "\n", "\n> "))
		}
	}
	prev := ""
	for _, sec := range doc.Body() {
		if h := sectionHeading(sec.Type); h != "" && h != prev {
			parts = append(parts, "### "+h)
		}
		prev = sectionHeading(sec.Type)

		var md string
		md, refs = richtext.ToMarkdownFrom(sec.Text, refs)
		if md = strings.TrimSpace(md); md != "" {
			parts = append(parts, md)
		}
	}
	return strings.Join(parts, "\n\n"), refs
}

func sectionHeading(typ string) string {
	switch typ = strings.TrimSpace(typ); typ {
	case "", "paragraph", "verse":
		return ""
	default:
		return typ
	}
}
