package panel

import (
	"strings"

	"github.com/foomo/docs-versionpanel/service/vo"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ContainerClass marks the elements that receive the version list.
const ContainerClass = "rst-other-versions"

// Renderer builds the version list fragment. Malformed descriptors are skipped and logged.
type Renderer struct {
	logger *zap.Logger
}

func NewRenderer(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// RenderVersionList renders without diagnostics.
func RenderVersionList(versions []vo.VersionDescriptor, currentVersion string) vo.Fragment {
	return NewRenderer(nil).Render(versions, currentVersion)
}

// Render returns a "Versions" definition list linking every build and, if at least one
// build has a PDF, a "Downloads" list. Builds without a PDF leave an empty download entry.
// The first build matching currentVersion is emphasized in both lists.
func (r *Renderer) Render(versions []vo.VersionDescriptor, currentVersion string) vo.Fragment {
	var versionsHTML, downloadsHTML strings.Builder
	versionsHTML.WriteString("<dl><dt>Versions</dt>")
	downloadsHTML.WriteString("<dl><dt>Downloads</dt>")

	showDownloads := false
	matched := false
	for i, v := range versions {
		if err := v.Validate(); err != nil {
			r.logger.Warn("skipping version", zap.Int("index", i), zap.Error(err))
			continue
		}

		versionLink := entry(v.Folder+"/index.html", v.Version)
		downloadLink := ""
		if v.HasPDF {
			downloadLink = entry(v.Folder+"/"+v.PDFName, v.Version)
			showDownloads = true
		}

		if !matched && v.Version == currentVersion {
			matched = true
			versionLink = "<strong>" + versionLink + "</strong>"
			downloadLink = "<strong>" + downloadLink + "</strong>"
		}
		versionsHTML.WriteString(versionLink)
		downloadsHTML.WriteString(downloadLink)
	}
	versionsHTML.WriteString("</dl>")
	downloadsHTML.WriteString("</dl>")

	if !matched && currentVersion != "" {
		r.logger.Debug("current version not listed", zap.String("version", currentVersion))
	}
	if !showDownloads {
		return vo.Fragment(versionsHTML.String())
	}
	return vo.Fragment(versionsHTML.String() + downloadsHTML.String())
}

// entry renders a single list item linking to target relative to the sibling build folders.
func entry(target, label string) string {
	return `<dd><a href="../` + html.EscapeString(target) + `">` + html.EscapeString(label) + `</a></dd>`
}
