package section

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// md is the shared Markdown parser. Goldmark parsers are safe for
// concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// Parse builds the section tree for a note's raw content. It never fails:
// any byte sequence produces a tree, an empty input produces an empty
// implicit root. Content preceding the first heading belongs to the root;
// heading level jumps become direct parent-child links.
func Parse(content []byte) *Section {
	root := &Section{Level: 0}

	fm, rest := splitFrontmatter(content)
	if fm != "" {
		fmSection := &Section{
			Level:     0,
			Title:     FrontMatterTitle,
			NormTitle: strings.ToLower(FrontMatterTitle),
		}
		fmSection.body = []string{fm}
		root.Children = append(root.Children, fmSection)
	}

	doc := md.Parser().Parse(text.NewReader(rest))

	// stack holds the chain of open sections, root at the bottom. Body
	// text always lands in the innermost open section; aggregation to the
	// ancestors happens in finalize.
	stack := []*Section{root}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if h, ok := node.(*ast.Heading); ok {
			title := nodeText(h, rest)
			for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
				stack = stack[:len(stack)-1]
			}
			sec := newSection(h.Level, title)
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, sec)
			stack = append(stack, sec)
			continue
		}
		if t := nodeText(node, rest); t != "" {
			top := stack[len(stack)-1]
			top.body = append(top.body, t)
		}
	}

	root.finalize()
	return root
}

// ExtractTitle returns the text of the first level-1 heading, or "" when
// the note has none; callers fall back to the filename stem.
func ExtractTitle(content []byte) string {
	_, rest := splitFrontmatter(content)
	doc := md.Parser().Parse(text.NewReader(rest))

	title := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = nodeText(h, rest)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// nodeText collects the plain text beneath a node: inline text and string
// nodes plus the raw lines of code blocks.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// splitFrontmatter detaches a leading YAML ("---") or TOML ("+++") block.
// It returns the inner frontmatter text and the remaining content. An
// unterminated fence is not frontmatter and is left in place.
func splitFrontmatter(content []byte) (string, []byte) {
	s := string(content)
	var fence string
	switch {
	case strings.HasPrefix(s, "---\n"), s == "---":
		fence = "---"
	case strings.HasPrefix(s, "+++\n"), s == "+++":
		fence = "+++"
	default:
		return "", content
	}

	rest := s[len(fence):]
	if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	} else {
		return "", content
	}

	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return "", content
	}
	inner := rest[:end]
	after := rest[end+1+len(fence):]
	// The closing fence must sit alone on its line.
	if after != "" && !strings.HasPrefix(after, "\n") {
		return "", content
	}
	after = strings.TrimPrefix(after, "\n")
	return strings.TrimSpace(inner), []byte(after)
}
