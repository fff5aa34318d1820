// Package descriptor reads the package list a bundle declares.
package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"
	"golang.org/x/net/html/charset"

	"github.com/GriffinCanCode/xhost/internal/xlib"
)

const (
	// EntryPath is the location of the descriptor inside a bundle.
	EntryPath = "META-INF/xlibrary.xml"

	// ElementName is the element whose text names one package.
	ElementName = "xpackage"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*(\.[a-zA-Z][a-zA-Z0-9]*)*$`)

// ValidIdentifier reports whether id is a dotted package identifier.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// Read locates the descriptor among the bundle's entries and returns the
// package identifiers in document order.
func Read(files []*zip.File) ([]string, error) {
	for _, f := range files {
		if f.Name != EntryPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", xlib.ErrDescriptorMalformed, err)
		}
		defer rc.Close()
		return Parse(rc)
	}
	return nil, fmt.Errorf("%w: no %s entry", xlib.ErrDescriptorMissing, EntryPath)
}

// Parse reads a descriptor document. Every xpackage element anywhere in the
// document contributes its trimmed character data.
func Parse(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var ids []string
	rooted := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", xlib.ErrDescriptorMalformed, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		rooted = true
		if start.Name.Local != ElementName {
			continue
		}

		var elem struct {
			Text string `xml:",chardata"`
		}
		if err := dec.DecodeElement(&elem, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", xlib.ErrDescriptorMalformed, err)
		}
		ids = append(ids, strings.TrimSpace(elem.Text))
	}

	if !rooted {
		return nil, fmt.Errorf("%w: no root element", xlib.ErrDescriptorMalformed)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no %s elements", xlib.ErrDescriptorInvalid, ElementName)
	}
	for _, id := range ids {
		if !ValidIdentifier(id) {
			return nil, fmt.Errorf("%w: bad package identifier %q", xlib.ErrDescriptorInvalid, id)
		}
	}
	return ids, nil
}

// Render produces a descriptor document for ids. Bundle tooling and tests
// use it to write bundles.
func Render(ids ...string) []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<xlibrary>\n")
	for _, id := range ids {
		b.WriteString("  <" + ElementName + ">")
		_ = xml.EscapeText(&b, []byte(id))
		b.WriteString("</" + ElementName + ">\n")
	}
	b.WriteString("</xlibrary>\n")
	return []byte(b.String())
}
