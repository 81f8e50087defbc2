package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/outline"
	"github.com/tsawler/stylemark/reader"
)

const bookSrc = `# Ruby Style Guide

Guidance for writing Ruby.

## Table of Contents

* [Source Layout](#source-layout)
* [Strings](#strings)

## Source Layout

See also [Strings](#strings).

` + "```ruby" + `
x = 1
` + "```" + `

## Strings

<a name="quoting"></a>

Prefer single quotes.
`

func parseBook(t *testing.T, src string) *model.Document {
	t.Helper()
	r, err := reader.FromBytes([]byte(src), "guide.md")
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	doc, _, err := r.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	outline.NewAnalyzer().Analyze(doc).Apply(doc)
	return doc
}

func writeBook(t *testing.T, opts Options) *zip.Reader {
	t.Helper()
	doc := parseBook(t, bookSrc)

	var buf bytes.Buffer
	if err := Write(&buf, doc, opts); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	return zr
}

func readEntry(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("archive has no entry %s", name)
	return ""
}

func TestWrite_Layout(t *testing.T) {
	zr := writeBook(t, Options{})

	if len(zr.File) == 0 || zr.File[0].Name != "mimetype" {
		t.Fatal("mimetype is not the first entry")
	}
	if zr.File[0].Method != zip.Store {
		t.Error("mimetype entry is compressed")
	}
	if got := readEntry(t, zr, "mimetype"); got != "application/epub+zip" {
		t.Errorf("mimetype = %q", got)
	}

	container := readEntry(t, zr, "META-INF/container.xml")
	if !strings.Contains(container, `full-path="OEBPS/content.opf"`) {
		t.Errorf("container.xml = %q", container)
	}
}

func TestWrite_Package(t *testing.T) {
	zr := writeBook(t, Options{Author: "Community"})

	var pkg struct {
		Version string `xml:"version,attr"`
		Title   string `xml:"metadata>title"`
		Creator string `xml:"metadata>creator"`
		Lang    string `xml:"metadata>language"`
		Items   []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"manifest>item"`
		Refs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"spine>itemref"`
	}
	if err := xml.Unmarshal([]byte(readEntry(t, zr, "OEBPS/content.opf")), &pkg); err != nil {
		t.Fatalf("package document does not parse: %v", err)
	}

	if pkg.Version != "3.0" {
		t.Errorf("version = %q, want 3.0", pkg.Version)
	}
	if pkg.Title != "Ruby Style Guide" {
		t.Errorf("title = %q", pkg.Title)
	}
	if pkg.Creator != "Community" {
		t.Errorf("creator = %q", pkg.Creator)
	}
	if pkg.Lang != "en" {
		t.Errorf("language = %q", pkg.Lang)
	}

	hrefs := make(map[string]string)
	for _, it := range pkg.Items {
		hrefs[it.Href] = it.Properties
	}
	if props, ok := hrefs["nav.xhtml"]; !ok || props != "nav" {
		t.Errorf("manifest nav item = %q, %v", props, ok)
	}
	for _, want := range []string{"ruby-style-guide.xhtml", "source-layout.xhtml", "strings.xhtml"} {
		if _, ok := hrefs[want]; !ok {
			t.Errorf("manifest missing %s (items %v)", want, pkg.Items)
		}
	}

	var order []string
	for _, ref := range pkg.Refs {
		order = append(order, ref.IDRef)
	}
	if len(order) != 3 || order[0] != "chapter-1" || order[2] != "chapter-3" {
		t.Errorf("spine = %v", order)
	}
}

func TestWrite_Nav(t *testing.T) {
	zr := writeBook(t, Options{})

	nav := readEntry(t, zr, "OEBPS/nav.xhtml")
	if !strings.Contains(nav, `epub:type="toc"`) {
		t.Error("nav document has no toc nav element")
	}
	if !strings.Contains(nav, `<a href="source-layout.xhtml">Source Layout</a>`) {
		t.Errorf("nav = %q", nav)
	}
	if strings.Contains(nav, ">Table of Contents</a>") {
		t.Error("source table of contents section became a chapter")
	}
}

func TestWrite_Chapters(t *testing.T) {
	zr := writeBook(t, Options{})

	intro := readEntry(t, zr, "OEBPS/ruby-style-guide.xhtml")
	if !strings.Contains(intro, `<h1 id="ruby-style-guide">Ruby Style Guide</h1>`) {
		t.Errorf("intro chapter = %q", intro)
	}
	if !strings.Contains(intro, "<p>Guidance for writing Ruby.</p>") {
		t.Error("intro chapter is missing the opening prose")
	}

	layout := readEntry(t, zr, "OEBPS/source-layout.xhtml")
	if !strings.Contains(layout, `<h2 id="source-layout">Source Layout</h2>`) {
		t.Errorf("layout chapter = %q", layout)
	}
	if !strings.Contains(layout, `<a href="strings.xhtml#strings">Strings</a>`) {
		t.Error("cross-chapter link was not rewritten")
	}
	if !strings.Contains(layout, `<pre><code class="language-ruby">x = 1`) {
		t.Error("code example missing from chapter")
	}

	strs := readEntry(t, zr, "OEBPS/strings.xhtml")
	if !strings.Contains(strs, `<a id="quoting"></a>`) {
		t.Error("explicit anchor missing from chapter")
	}
}

func TestWrite_LanguageOption(t *testing.T) {
	zr := writeBook(t, Options{Language: "fr"})

	chapter := readEntry(t, zr, "OEBPS/strings.xhtml")
	if !strings.Contains(chapter, `lang="fr"`) {
		t.Errorf("chapter = %q, want fr language tags", chapter)
	}
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, Options{}); err == nil {
		t.Error("Write(nil) error = nil, want error")
	}

	doc := parseBook(t, "Just a paragraph, no headings.\n")
	if err := Write(&buf, doc, Options{}); err == nil {
		t.Error("Write() error = nil for a document without sections")
	}
}
