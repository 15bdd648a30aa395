package panel

import (
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/docs-versionpanel/service/vo"
	"golang.org/x/net/html"
)

// Result describes the outcome of updating one document.
type Result struct {
	Title      string // Content of the <title> element, if any
	Containers int    // Number of replaced containers
}

// InjectFragment replaces the content of every element whose class list contains matchClass
// with fragment. It returns the number of replaced elements; no match is not an error.
func InjectFragment(doc *html.Node, matchClass string, fragment vo.Fragment) (int, error) {
	containers := findNodesByClass(doc, matchClass)
	for _, container := range containers {
		// Parse per container: nodes can only have one parent.
		nodes, err := html.ParseFragment(strings.NewReader(string(fragment)), container)
		if err != nil {
			return 0, fmt.Errorf("failed to parse fragment: %w", err)
		}
		replaceChildren(container, nodes)
	}
	return len(containers), nil
}

// UpdateVersionList renders versions and injects them into all ContainerClass elements of doc.
func UpdateVersionList(doc *html.Node, versions []vo.VersionDescriptor, currentVersion string) (int, error) {
	return NewRenderer(nil).UpdateVersionList(doc, ContainerClass, versions, currentVersion)
}

// UpdateVersionList renders versions and injects them into all matchClass elements of doc.
func (r *Renderer) UpdateVersionList(doc *html.Node, matchClass string, versions []vo.VersionDescriptor, currentVersion string) (int, error) {
	return InjectFragment(doc, matchClass, r.Render(versions, currentVersion))
}

// UpdateDocument parses a whole page from src, updates its version panels and writes the
// page to dst.
func (r *Renderer) UpdateDocument(src io.Reader, dst io.Writer, matchClass string, versions []vo.VersionDescriptor, currentVersion string) (*Result, error) {
	// Parse HTML
	doc, err := html.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	n, err := r.UpdateVersionList(doc, matchClass, versions, currentVersion)
	if err != nil {
		return nil, err
	}

	if err := html.Render(dst, doc); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	return &Result{
		Title:      extractTitle(doc),
		Containers: n,
	}, nil
}

// Preview converts a fragment to markdown for terminals and tool responses.
func Preview(fragment vo.Fragment) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(string(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return markdown, nil
}
