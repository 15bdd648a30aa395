package versions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/foomo/docs-versionpanel/service/vo"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
)

// Prefix is the JavaScript assignment wrapping the JSON list in the data file.
const Prefix = "var ar_versions = "

// Decode parses a versions data file. Entries that do not form a valid descriptor are
// skipped; their errors are combined and returned together with the valid entries.
func Decode(data []byte) ([]vo.VersionDescriptor, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte(Prefix))
	data = bytes.TrimSuffix(data, []byte(";"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse versions: %w", err)
	}

	var errs error
	list := make([]vo.VersionDescriptor, 0, len(raw))
	for i, entry := range raw {
		d, err := descriptor(entry)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		list = append(list, d)
	}
	return list, errs
}

// descriptor converts a loosely typed entry; has_pdf is often written as a string.
func descriptor(entry map[string]any) (vo.VersionDescriptor, error) {
	var d vo.VersionDescriptor
	var err error
	if d.Version, err = cast.ToStringE(entry["version"]); err != nil {
		return d, fmt.Errorf("%w: version: %v", vo.ErrMalformedDescriptor, err)
	}
	if d.Folder, err = cast.ToStringE(entry["folder"]); err != nil {
		return d, fmt.Errorf("%w: folder: %v", vo.ErrMalformedDescriptor, err)
	}
	if v, ok := entry["has_pdf"]; ok && v != nil {
		if d.HasPDF, err = cast.ToBoolE(v); err != nil {
			return d, fmt.Errorf("%w: has_pdf: %v", vo.ErrMalformedDescriptor, err)
		}
	}
	if d.PDFName, err = cast.ToStringE(entry["pdf_name"]); err != nil {
		return d, fmt.Errorf("%w: pdf_name: %v", vo.ErrMalformedDescriptor, err)
	}
	return d, d.Validate()
}

// Encode writes list as a data file loadable by a browser.
func Encode(list []vo.VersionDescriptor) ([]byte, error) {
	if list == nil {
		list = []vo.VersionDescriptor{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal versions: %w", err)
	}
	return append([]byte(Prefix), data...), nil
}

// Load reads and decodes the data file at path. A missing file yields an empty list.
func Load(path string) ([]vo.VersionDescriptor, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read versions file %s: %w", path, err)
	}
	return Decode(data)
}

// Save encodes list to path, creating the parent directory.
func Save(path string, list []vo.VersionDescriptor) error {
	data, err := Encode(list)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write versions file %s: %w", path, err)
	}
	return nil
}

// Fetch downloads a published data file.
func Fetch(ctx context.Context, client *http.Client, url string) ([]vo.VersionDescriptor, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download versions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return Decode(body)
}

// Find returns the first descriptor with the given version.
func Find(list []vo.VersionDescriptor, version string) (vo.VersionDescriptor, bool) {
	for _, d := range list {
		if d.Version == version {
			return d, true
		}
	}
	return vo.VersionDescriptor{}, false
}

// Add appends d unless its version is already listed and returns the sorted result.
// The boolean reports whether d was added.
func Add(list []vo.VersionDescriptor, d vo.VersionDescriptor) ([]vo.VersionDescriptor, bool, error) {
	if err := d.Validate(); err != nil {
		return list, false, err
	}
	if _, ok := Find(list, d.Version); ok {
		return list, false, nil
	}
	added := make([]vo.VersionDescriptor, 0, len(list)+1)
	added = append(added, list...)
	added = append(added, d)
	Sort(added)
	return added, true, nil
}
