package handlers

import (
	"bufio"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"houstonpro/internal/markdown"
	"houstonpro/internal/render"
)

type staticPage struct {
	title string
	body  template.HTML
}

// Pages serves the informational pages (about, FAQ, terms...) written in
// Markdown. All pages are converted once at startup.
type Pages struct {
	renderer *render.Renderer
	pages    map[string]staticPage
}

// NewPages converts every content/*.md file in fsys. A page is served at
// "/<name>", where name is the file name without its extension; the
// first "# " heading becomes the page title.
func NewPages(renderer *render.Renderer, fsys fs.FS) (*Pages, error) {
	files, err := fs.Glob(fsys, "content/*.md")
	if err != nil {
		return nil, fmt.Errorf("glob content: %w", err)
	}

	p := &Pages{renderer: renderer, pages: make(map[string]staticPage, len(files))}
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		body, err := markdown.ToHTML(string(src))
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), ".md")
		p.pages[name] = staticPage{
			title: pageTitle(string(src), name),
			body:  template.HTML(body),
		}
	}
	return p, nil
}

// pageTitle returns the text of the first level-one heading in src.
func pageTitle(src, fallback string) string {
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return titleFromName(fallback)
}

func titleFromName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Names returns the page names in sorted order, for route registration.
func (p *Pages) Names() []string {
	names := make([]string, 0, len(p.pages))
	for name := range p.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Show renders the page matching the request path.
func (p *Pages) Show(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(r.URL.Path, "/")
	page, ok := p.pages[name]
	if !ok {
		notFound(w, r, p.renderer)
		return
	}

	p.renderer.Page(w, r, "public/page", &render.PageData{
		Title:   page.title,
		Section: name,
		Data:    map[string]any{"Body": page.body},
	})
}
