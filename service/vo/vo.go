package vo

import (
	"errors"
	"fmt"
)

// ErrMalformedDescriptor is returned for version descriptors that cannot be rendered.
var ErrMalformedDescriptor = errors.New("malformed version descriptor")

// Fragment is a generated HTML snippet meant to replace the content of a container element.
type Fragment string

type VersionDescriptor struct {
	Version string `json:"version"`            // Display label, also matched against the current version
	Folder  string `json:"folder"`             // Path segment of the build below the site root
	HasPDF  bool   `json:"has_pdf"`            // Whether a PDF download exists for this build
	PDFName string `json:"pdf_name,omitempty"` // File name of the PDF inside Folder
}

// NewVersionDescriptor builds a validated descriptor. An empty pdfName means no download.
func NewVersionDescriptor(version, folder, pdfName string) (VersionDescriptor, error) {
	d := VersionDescriptor{
		Version: version,
		Folder:  folder,
		HasPDF:  pdfName != "",
		PDFName: pdfName,
	}
	if err := d.Validate(); err != nil {
		return VersionDescriptor{}, err
	}
	return d, nil
}

func (d VersionDescriptor) Validate() error {
	switch {
	case d.Version == "":
		return fmt.Errorf("%w: missing version", ErrMalformedDescriptor)
	case d.Folder == "":
		return fmt.Errorf("%w: version %q has no folder", ErrMalformedDescriptor, d.Version)
	case d.HasPDF && d.PDFName == "":
		return fmt.Errorf("%w: version %q has a pdf without pdf_name", ErrMalformedDescriptor, d.Version)
	}
	return nil
}

type PageResult struct {
	Path       string `json:"path"`
	Version    string `json:"version"`
	Containers int    `json:"containers"` // Number of replaced containers
	Changed    bool   `json:"changed"`
	Err        string `json:"error,omitempty"`
}

type SiteReport struct {
	Pages     int          `json:"pages"`
	Updated   int          `json:"updated"`
	Unchanged int          `json:"unchanged"`
	Failed    int          `json:"failed"`
	Skipped   []string     `json:"skipped,omitempty"` // Version folders missing below the site root
	Results   []PageResult `json:"results,omitempty"`
}

// Add accounts for a finished page.
func (r *SiteReport) Add(result PageResult) {
	r.Pages++
	switch {
	case result.Err != "":
		r.Failed++
	case result.Changed:
		r.Updated++
	default:
		r.Unchanged++
	}
	r.Results = append(r.Results, result)
}
