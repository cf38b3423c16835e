// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package timelineui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/timeline/lib/tui"
)

// The parser configuration never changes and goldmark parsers keep
// per-call state in the reader, so one instance serves every message.
var (
	bodyParser     goldmark.Markdown
	bodyParserOnce sync.Once
)

func markdownParser() goldmark.Markdown {
	bodyParserOnce.Do(func() {
		bodyParser = goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Linkify,
				extension.TaskList,
			),
		)
	})
	return bodyParser
}

// renderMarkdown renders a message body as styled terminal lines no
// wider than width. Blocks follow each other without blank lines, and
// a single newline in the body ends the line, as chat clients show it.
func renderMarkdown(body string, theme tui.Theme, width int) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	source := []byte(body)
	document := markdownParser().Parser().Parse(gmtext.NewReader(source))

	// The profile is forced so output is styled even without a TTY,
	// which is the case under test and when stdout is redirected.
	styles := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	renderer := &bodyRenderer{
		source: source,
		theme:  theme,
		width:  max(width, 10),
		styles: styles,
	}
	ast.Walk(document, renderer.walk)
	return strings.Join(renderer.lines, "\n")
}

// bodyRenderer walks a goldmark AST collecting output lines. Inline
// content accumulates per block and is wrapped when the block closes.
type bodyRenderer struct {
	source []byte
	theme  tui.Theme
	width  int
	styles *lipgloss.Renderer

	lines  []string
	inline strings.Builder

	// prefixes holds one entry per open container (quote bar or list
	// indentation). pendingBullet replaces the prefix on the next
	// emitted line only.
	prefixes      []string
	pendingBullet string

	// Counters rather than flags so nested emphasis unwinds correctly.
	bold, italic, strike, link int

	lists []listState
}

type listState struct {
	ordered bool
	next    int
}

func (renderer *bodyRenderer) style() lipgloss.Style {
	return renderer.styles.NewStyle()
}

func (renderer *bodyRenderer) prefix() string {
	return strings.Join(renderer.prefixes, "")
}

func (renderer *bodyRenderer) contentWidth() int {
	return max(renderer.width-ansi.StringWidth(renderer.prefix()), 10)
}

// emit appends content as lines: the first takes the pending bullet
// if one is set, the rest take the container prefix.
func (renderer *bodyRenderer) emit(content string) {
	prefix := renderer.prefix()
	for index, line := range strings.Split(content, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			renderer.lines = append(renderer.lines, renderer.pendingBullet+line)
			renderer.pendingBullet = ""
			continue
		}
		renderer.lines = append(renderer.lines, prefix+line)
	}
}

// flushInline wraps and emits the collected inline content.
func (renderer *bodyRenderer) flushInline() {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}
	renderer.emit(ansi.Wrap(content, renderer.contentWidth(), " ,.;-+|"))
}

// styledText applies the current inline style to content.
func (renderer *bodyRenderer) styledText(content string) string {
	style := renderer.style().Foreground(renderer.theme.NormalText)
	if renderer.link > 0 {
		style = style.Foreground(renderer.theme.LinkForeground).Underline(true)
	}
	if renderer.bold > 0 {
		style = style.Bold(true)
	}
	if renderer.italic > 0 {
		style = style.Italic(true)
	}
	if renderer.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (renderer *bodyRenderer) faint(content string) string {
	return renderer.style().Foreground(renderer.theme.FaintText).Render(content)
}

func (renderer *bodyRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flushInline()
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
		} else {
			content := ansi.Strip(renderer.inline.String())
			renderer.inline.Reset()
			heading := renderer.style().Bold(true).Foreground(renderer.theme.HeaderForeground)
			renderer.emit(ansi.Wrap(heading.Render(content), renderer.contentWidth(), " ,.;-+|"))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			renderer.emitCode(renderer.blockText(block), string(block.Language(renderer.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			renderer.emitCode(renderer.blockText(node), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			bar := renderer.style().Foreground(renderer.theme.BorderColor).Render("▎")
			renderer.prefixes = append(renderer.prefixes, bar+" ")
		} else {
			renderer.prefixes = renderer.prefixes[:len(renderer.prefixes)-1]
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			renderer.lists = append(renderer.lists, listState{ordered: list.IsOrdered(), next: list.Start})
		} else {
			renderer.lists = renderer.lists[:len(renderer.lists)-1]
		}

	case ast.KindListItem:
		if entering {
			renderer.enterListItem()
		} else {
			renderer.prefixes = renderer.prefixes[:len(renderer.prefixes)-1]
			renderer.pendingBullet = ""
		}

	case ast.KindThematicBreak:
		if entering {
			rule := strings.Repeat("─", min(renderer.contentWidth(), 24))
			renderer.emit(renderer.style().Foreground(renderer.theme.BorderColor).Render(rule))
		}

	case ast.KindHTMLBlock:
		if entering {
			if stripped := strings.TrimSpace(stripHTMLTags(renderer.blockText(node))); stripped != "" {
				renderer.emit(renderer.faint(stripped))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			value := string(textNode.Segment.Value(renderer.source))
			if textNode.HardLineBreak() {
				value = strings.TrimRight(value, " \\")
			}
			renderer.inline.WriteString(renderer.styledText(value))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		delta := -1
		if entering {
			delta = 1
		}
		if node.(*ast.Emphasis).Level >= 2 {
			renderer.bold += delta
		} else {
			renderer.italic += delta
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				switch child := child.(type) {
				case *ast.Text:
					code.Write(child.Segment.Value(renderer.source))
				case *ast.String:
					code.Write(child.Value)
				}
			}
			renderer.inline.WriteString(renderer.faint(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		link := node.(*ast.Link)
		if entering {
			renderer.link++
		} else {
			renderer.link--
			destination := string(link.Destination)
			if destination != "" && destination != plainText(link, renderer.source) {
				renderer.inline.WriteString(" " + renderer.faint("("+destination+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			renderer.inline.WriteString(renderer.style().Foreground(renderer.theme.LinkForeground).Underline(true).Render(url))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindImage:
		if entering {
			alt := plainText(node, renderer.source)
			renderer.inline.WriteString(renderer.faint("[image: " + alt + "]"))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			var html strings.Builder
			for index := 0; index < raw.Segments.Len(); index++ {
				segment := raw.Segments.At(index)
				html.Write(segment.Value(renderer.source))
			}
			if stripped := stripHTMLTags(html.String()); stripped != "" {
				renderer.inline.WriteString(renderer.faint(stripped))
			}
		}

	case extast.KindStrikethrough:
		if entering {
			renderer.strike++
		} else {
			renderer.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				renderer.inline.WriteString(renderer.styledText("[x] "))
			} else {
				renderer.inline.WriteString(renderer.styledText("[ ] "))
			}
		}
	}
	return ast.WalkContinue, nil
}

func (renderer *bodyRenderer) enterListItem() {
	bullet := "• "
	if len(renderer.lists) > 0 {
		top := &renderer.lists[len(renderer.lists)-1]
		if top.ordered {
			bullet = fmt.Sprintf("%d. ", top.next)
			top.next++
		}
	}
	renderer.pendingBullet = renderer.prefix() + bullet
	renderer.prefixes = append(renderer.prefixes, strings.Repeat(" ", ansi.StringWidth(bullet)))
}

// emitCode emits a code block, highlighted when the language is known
// to chroma and faint otherwise. Code lines are truncated rather than
// wrapped.
func (renderer *bodyRenderer) emitCode(code, language string) {
	code = strings.TrimRight(code, "\n")
	highlighted := ""
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err == nil {
			highlighted = strings.TrimRight(buffer.String(), "\n")
		}
	}
	if highlighted == "" {
		faintLines := strings.Split(code, "\n")
		for index, line := range faintLines {
			faintLines[index] = renderer.faint(line)
		}
		highlighted = strings.Join(faintLines, "\n")
	}

	width := renderer.contentWidth()
	for _, line := range strings.Split(highlighted, "\n") {
		renderer.emit(ansi.Truncate(line, width, "…"))
	}
}

// blockText concatenates the raw source lines of a block node.
func (renderer *bodyRenderer) blockText(node ast.Node) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		content.Write(segment.Value(renderer.source))
	}
	return content.String()
}

// plainText returns the unstyled text of a node's inline children.
func plainText(node ast.Node, source []byte) string {
	var content strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch child := child.(type) {
		case *ast.Text:
			content.Write(child.Segment.Value(source))
		case *ast.String:
			content.Write(child.Value)
		case *ast.AutoLink:
			content.Write(child.URL(source))
		}
		return ast.WalkContinue, nil
	})
	return content.String()
}

// stripHTMLTags removes anything between angle brackets.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
