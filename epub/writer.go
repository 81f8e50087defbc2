package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/render"
)

// Options configures the EPUB package.
type Options struct {
	// Title overrides the book title. Empty uses the document's own.
	Title string

	// Author becomes the dc:creator element. Default: none.
	Author string

	// Language is the dc:language tag. Default: "en".
	Language string
}

// chapter is one spine entry: a section subtree rendered into its own
// XHTML file.
type chapter struct {
	file  string
	id    string
	title string
	sec   *model.Section
	body  string

	// Source line range, for deciding which anchors live here.
	start, end int
}

// Write packages the document as an EPUB 3 archive.
func Write(w io.Writer, doc *model.Document, opts Options) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	chapters := buildChapters(doc)
	if len(chapters) == 0 {
		return fmt.Errorf("document has no sections")
	}

	title := opts.Title
	if title == "" {
		title = doc.Title()
	}
	language := opts.Language
	if language == "" {
		language = "en"
	}

	renderChapters(doc, chapters)

	opf, err := buildOPF(title, opts.Author, language, chapters)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	// The mimetype must be the first entry and stored uncompressed.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}
	if _, err := mt.Write([]byte(mimetype)); err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opf},
		{"OEBPS/nav.xhtml", []byte(buildNav(title, chapters))},
	}
	for _, c := range chapters {
		files = append(files, struct {
			name    string
			content []byte
		}{"OEBPS/" + c.file, []byte(buildChapterXHTML(c.title, language, c.body))})
	}

	for _, f := range files {
		fw, err := zw.Create(f.name)
		if err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.content); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// buildChapters decides the chapter split. Top-level sections each get
// a file; a document with a single top-level heading is split at its
// children instead, with the heading's own prose becoming the opening
// chapter. Table-of-contents sections are dropped, the nav document
// replaces them.
func buildChapters(doc *model.Document) []*chapter {
	roots := doc.Sections
	var chapters []*chapter

	if len(roots) == 1 {
		root := roots[0]
		if len(root.Blocks) > 0 {
			intro := &model.Section{
				Heading: root.Heading,
				Level:   root.Level,
				Anchor:  root.Anchor,
				Line:    root.Line,
				Blocks:  root.Blocks,
			}
			end := root.Line
			for _, blk := range root.Blocks {
				if blk.EndLine > end {
					end = blk.EndLine
				}
			}
			chapters = append(chapters, &chapter{
				file:  chapterFile(intro),
				title: root.Heading,
				sec:   intro,
				start: root.Line,
				end:   end,
			})
		}
		roots = root.Children
	}

	for _, sec := range roots {
		if strings.Contains(sec.Anchor, "contents") {
			continue
		}
		chapters = append(chapters, &chapter{
			file:  chapterFile(sec),
			title: sec.Heading,
			sec:   sec,
			start: sec.Line,
			end:   sec.SubtreeEnd(),
		})
	}

	for i, c := range chapters {
		c.id = fmt.Sprintf("chapter-%d", i+1)
	}
	return chapters
}

func chapterFile(sec *model.Section) string {
	if sec.Anchor != "" {
		return sec.Anchor + ".xhtml"
	}
	return fmt.Sprintf("section-%d.xhtml", sec.Line)
}

// renderChapters fills each chapter's body, pointing internal links at
// the chapter file that owns their anchor.
func renderChapters(doc *model.Document, chapters []*chapter) {
	owner := anchorFiles(doc, chapters)
	for _, c := range chapters {
		cur := c.file
		br := render.NewBodyRenderer(doc, func(dest string) string {
			if !strings.HasPrefix(dest, "#") {
				return dest
			}
			file, ok := owner[strings.TrimPrefix(dest, "#")]
			if !ok || file == cur {
				return dest
			}
			return file + dest
		})
		c.body = br.SectionHTML(c.sec)
	}
}

// anchorFiles maps every anchor ID to the chapter file whose line range
// covers it.
func anchorFiles(doc *model.Document, chapters []*chapter) map[string]string {
	owner := make(map[string]string, len(doc.Anchors))
	for _, a := range doc.Anchors {
		for _, c := range chapters {
			if a.Line >= c.start && a.Line <= c.end {
				owner[a.ID] = c.file
				break
			}
		}
	}
	// A sole top-level heading may own no chapter; send its anchor to
	// the first one.
	if len(doc.Sections) == 1 {
		if a := doc.Sections[0].Anchor; a != "" {
			if _, ok := owner[a]; !ok {
				owner[a] = chapters[0].file
			}
		}
	}
	return owner
}
