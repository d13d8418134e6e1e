// Package richtext renders document markup for the terminal.
//
// Documents are a small trusted HTML subset: paragraphs, bold, italic, line
// breaks and <span class="star-tag" id="NAME"> cross-references to other
// objects. Markup is converted to Markdown and rendered with glamour;
// cross-references become numbered markers the caller can follow.
package richtext

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/net/html"
)

// StarTagClass marks a cross-reference span.
const StarTagClass = "star-tag"

// Ref is a cross-reference found in a document.
type Ref struct {
	Name string // target display name
	Text string // visible text
}

// Renderer renders markup at a fixed wrap width.
type Renderer struct {
	width int
	tr    *glamour.TermRenderer
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	style string
}

// WithStyle selects a glamour style by name ("dark", "light", "notty", ...).
func WithStyle(style string) Option {
	return func(o *options) {
		o.style = style
	}
}

// New creates a renderer wrapping at width columns.
func New(width int, opts ...Option) (*Renderer, error) {
	o := options{style: "dark"}
	for _, opt := range opts {
		opt(&o)
	}
	if width < 10 {
		width = 10
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(o.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &Renderer{width: width, tr: tr}, nil
}

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// RenderMarkdown renders Markdown produced by ToMarkdown, together with any
// headings the caller adds.
func (r *Renderer) RenderMarkdown(md string) (string, error) {
	out, err := r.tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// ToMarkdown converts markup to Markdown and collects cross-references.
// Unknown tags are dropped and their text kept.
func ToMarkdown(markup string) (string, []Ref) {
	return ToMarkdownFrom(markup, nil)
}

// ToMarkdownFrom is ToMarkdown continuing the numbering of refs, so markers
// stay unique across the sections of one document.
func ToMarkdownFrom(markup string, refs []Ref) (string, []Ref) {
	var (
		b      strings.Builder
		z      = html.NewTokenizer(strings.NewReader(markup))
		inTag  []string // stack of open star-tag names, "" for other spans
		tagBuf strings.Builder
	)

	index := func(name string) int {
		for i, r := range refs {
			if r.Name == name {
				return i + 1
			}
		}
		return 0
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				b.WriteString(escape(string(z.Raw())))
			}
			return strings.TrimSpace(collapseBlank(b.String())), refs[:len(refs):len(refs)]

		case html.TextToken:
			text := escape(collapseSpace(string(z.Text())))
			if len(inTag) > 0 && inTag[len(inTag)-1] != "" {
				tagBuf.WriteString(text)
			} else {
				b.WriteString(text)
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "p", "div":
				b.WriteString("\n\n")
			case "br":
				b.WriteString("  \n")
			case "b", "strong":
				b.WriteString("**")
			case "i", "em":
				b.WriteString("*")
			case "h1", "h2", "h3", "h4":
				b.WriteString("\n\n### ")
			case "span":
				if tt == html.SelfClosingTagToken {
					continue
				}
				class, id := "", ""
				for hasAttr {
					var k, v []byte
					k, v, hasAttr = z.TagAttr()
					switch string(k) {
					case "class":
						class = string(v)
					case "id":
						id = string(v)
					}
				}
				if hasClass(class, StarTagClass) && id != "" {
					inTag = append(inTag, id)
					tagBuf.Reset()
				} else {
					inTag = append(inTag, "")
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "div":
				b.WriteString("\n\n")
			case "b", "strong":
				b.WriteString("**")
			case "i", "em":
				b.WriteString("*")
			case "h1", "h2", "h3", "h4":
				b.WriteString("\n\n")
			case "span":
				if len(inTag) == 0 {
					continue
				}
				target := inTag[len(inTag)-1]
				inTag = inTag[:len(inTag)-1]
				if target == "" {
					continue
				}
				text := strings.TrimSpace(tagBuf.String())
				if text == "" {
					text = escape(target)
				}
				n := index(target)
				if n == 0 {
					refs = append(refs, Ref{Name: target, Text: text})
					n = len(refs)
				}
				fmt.Fprintf(&b, "**%s**\\[%d\\]", text, n)
				tagBuf.Reset()
			}
		}
	}
}

func hasClass(attr, class string) bool {
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}

// collapseSpace folds runs of whitespace, including newlines from
// indented source markup, to single spaces.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	lead := isSpace(s[0])
	trail := isSpace(s[len(s)-1])
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		return " "
	}
	if lead {
		out = " " + out
	}
	if trail {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func collapseBlank(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
		} else if !strings.HasSuffix(l, "  ") {
			lines[i] = strings.TrimLeft(l, " ")
		}
	}
	s = strings.Join(lines, "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
