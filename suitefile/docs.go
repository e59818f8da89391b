package suitefile

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FirstParagraph parses markdown and returns the text of its first
// paragraph, with soft line breaks collapsed to spaces. Headings,
// code blocks, and lists before the first paragraph are skipped.
// Returns "" when the document has no paragraph.
func FirstParagraph(source []byte) string {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var para *ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if p, ok := n.(*ast.Paragraph); ok {
			// Only top-level paragraphs count; list items contain
			// paragraphs of their own.
			if _, inDoc := p.Parent().(*ast.Document); inDoc {
				para = p
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if para == nil {
		return ""
	}

	var sb strings.Builder
	lines := para.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(segment.Value(source))
	}
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}
