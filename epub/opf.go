package epub

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	mimetype      = "application/epub+zip"
	xhtmlType     = "application/xhtml+xml"
	containerXML  = `<?xml version="1.0" encoding="utf-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`
)

// opfPackage is the OPF package document.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Xmlns    string      `xml:"xmlns,attr"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string        `xml:"xmlns:dc,attr"`
	Identifier opfIdentifier `xml:"dc:identifier"`
	Title      string        `xml:"dc:title"`
	Language   string        `xml:"dc:language"`
	Creator    string        `xml:"dc:creator,omitempty"`
	Meta       []opfMeta     `xml:"meta"`
}

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// buildOPF assembles the package document for the given chapters.
func buildOPF(title, author, language string, chapters []*chapter) ([]byte, error) {
	pkg := opfPackage{
		Xmlns:    "http://www.idpf.org/2007/opf",
		Version:  "3.0",
		UniqueID: "pub-id",
		Metadata: opfMetadata{
			XmlnsDC: "http://purl.org/dc/elements/1.1/",
			Identifier: opfIdentifier{
				ID:    "pub-id",
				Value: "urn:uuid:" + uuid.NewString(),
			},
			Title:    title,
			Language: language,
			Creator:  author,
			Meta: []opfMeta{{
				Property: "dcterms:modified",
				Value:    time.Now().UTC().Format("2006-01-02T15:04:05Z"),
			}},
		},
	}

	pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
		ID:         "nav",
		Href:       "nav.xhtml",
		MediaType:  xhtmlType,
		Properties: "nav",
	})
	for _, c := range chapters {
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID:        c.id,
			Href:      c.file,
			MediaType: xhtmlType,
		})
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, opfItemRef{IDRef: c.id})
	}

	data, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding package document: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// buildNav assembles the EPUB 3 nav document.
func buildNav(title string, chapters []*chapter) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">`)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "<head>\n<title>%s</title>\n</head>\n<body>\n", xmlEscape(title))
	b.WriteString("<nav epub:type=\"toc\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n<ol>\n", xmlEscape(title))
	for _, c := range chapters {
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", c.file, xmlEscape(c.title))
	}
	b.WriteString("</ol>\n</nav>\n</body>\n</html>\n")
	return b.String()
}

// buildChapterXHTML wraps a rendered body fragment in a chapter file.
func buildChapterXHTML(title, language, body string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, `<html xmlns="http://www.w3.org/1999/xhtml" lang="%s" xml:lang="%s">`, language, language)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "<head>\n<title>%s</title>\n</head>\n<body>\n", xmlEscape(title))
	// The body fragment is HTML; void elements need closing for XHTML.
	b.WriteString(strings.ReplaceAll(body, "<hr>", "<hr />"))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
