package vo

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewVersionDescriptor(t *testing.T) {
	d, err := NewVersionDescriptor("2.1.0@ar/stable", "2_1_0_ar_stable", "2_1_0_ar_stable.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.HasPDF {
		t.Fatal("expected HasPDF for a descriptor with pdf name")
	}

	d, err = NewVersionDescriptor("master", "master", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.HasPDF {
		t.Fatal("expected no pdf")
	}
}

func TestValidate(t *testing.T) {
	for name, d := range map[string]VersionDescriptor{
		"missing version": {Folder: "v1"},
		"missing folder":  {Version: "v1"},
		"pdf without name": {
			Version: "v1",
			Folder:  "v1",
			HasPDF:  true,
		},
	} {
		if err := d.Validate(); !errors.Is(err, ErrMalformedDescriptor) {
			t.Errorf("%s: expected ErrMalformedDescriptor, got %v", name, err)
		}
	}
}

func TestVersionDescriptorJSON(t *testing.T) {
	data, err := json.Marshal(VersionDescriptor{Version: "v1", Folder: "v1"})
	if err != nil {
		t.Fatalf("Failed to marshal VersionDescriptor: %v", err)
	}
	if string(data) != `{"version":"v1","folder":"v1","has_pdf":false}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestSiteReportAdd(t *testing.T) {
	var r SiteReport
	r.Add(PageResult{Path: "a.html", Changed: true})
	r.Add(PageResult{Path: "b.html"})
	r.Add(PageResult{Path: "c.html", Err: "boom"})

	if r.Pages != 3 || r.Updated != 1 || r.Unchanged != 1 || r.Failed != 1 {
		t.Fatalf("unexpected report: %+v", r)
	}
}
