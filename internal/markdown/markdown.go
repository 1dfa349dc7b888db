// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders contractor descriptions, review text and the
// embedded site pages. Raw HTML in the source is dropped and unsafe link
// schemes are neutralised.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var converter = newConverter()

func newConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			// Site pages show embed snippets in fenced blocks.
			highlighting.NewHighlighting(highlighting.WithStyle("github")),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Contractors write descriptions as plain lines, not paragraphs.
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// ToHTML converts source to an HTML fragment.
func ToHTML(source string) (string, error) {
	var out bytes.Buffer
	if err := converter.Convert([]byte(source), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Render is ToHTML for templates. On failure it returns the escaped source.
func Render(source string) template.HTML {
	out, err := ToHTML(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(out)
}
