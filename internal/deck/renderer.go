// Package deck encodes slide decks as Office Open XML presentations.
package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

// ContentType is the MIME type of a rendered deck.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// ErrNoSlides is returned when asked to render an empty deck.
var ErrNoSlides = errors.New("deck has no slides")

// 16:9 slide in EMU.
const (
	slideWidth  = 12192000
	slideHeight = 6858000
	margin      = 457200
)

// Renderer produces an exportable presentation from slides. A nil or short
// styles slice falls back to the default style for the missing indexes.
type Renderer interface {
	Render(title string, slides []model.Slide, styles []model.SlideStyle) ([]byte, error)
}

// PPTXRenderer writes .pptx packages.
type PPTXRenderer struct {
	Author string
	now    func() time.Time
}

// NewPPTXRenderer creates a renderer.
func NewPPTXRenderer() *PPTXRenderer {
	return &PPTXRenderer{Author: "AI Slides", now: time.Now}
}

// Render encodes the deck.
func (r *PPTXRenderer) Render(title string, slides []model.Slide, styles []model.SlideStyle) ([]byte, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	if strings.TrimSpace(title) == "" {
		title = slides[0].Title
	}
	if strings.TrimSpace(title) == "" {
		title = "Presentation"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := r.now().UTC()

	parts := []part{
		{"[Content_Types].xml", contentTypes(len(slides))},
		{"_rels/.rels", rootRels},
		{"docProps/app.xml", appProps(len(slides))},
		{"docProps/core.xml", coreProps(title, r.Author, modified)},
		{"ppt/presentation.xml", presentation(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", theme},
	}
	for i, s := range slides {
		style := model.DefaultStyle(i)
		if i < len(styles) {
			style = resolveStyle(styles[i], style)
		}
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(i, s, style)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRels},
		)
	}

	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish package: %w", err)
	}
	return buf.Bytes(), nil
}

func contentTypes(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func appProps(n int) string {
	return xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>AI Slides</Application>` +
		fmt.Sprintf(`<Slides>%d</Slides>`, n) +
		`</Properties>`
}

func coreProps(title, author string, at time.Time) string {
	ts := at.Format(time.RFC3339)
	return xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`<dc:creator>` + escape(author) + `</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

// Relationship ids: rId1 master, rId2 theme, rId3.. slides.
func presentation(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+3)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, slideWidth, slideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRels(n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="` + relSlideMaster + `" Target="slideMasters/slideMaster1.xml"/>`)
	b.WriteString(`<Relationship Id="rId2" Type="` + relTheme + `" Target="theme/theme1.xml"/>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+3, relSlide, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

type part struct {
	name, body string
}

type box struct {
	x, y, cx, cy int
}

func slideXML(index int, s model.Slide, style model.SlideStyle) string {
	titleBox := box{margin, 365125, slideWidth - 2*margin, 1325563}
	accentBox := box{margin, 1690688, 1828800, 45720}
	bodyBox := box{margin, 1825625, slideWidth - 2*margin, 4351338}
	if index == 0 {
		titleBox = box{margin, 2130425, slideWidth - 2*margin, 1470025}
		accentBox = box{margin, 3600450, 1828800, 45720}
		bodyBox = box{margin, 3886200, slideWidth - 2*margin, 1752600}
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	b.WriteString(`<p:cSld>`)
	b.WriteString(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="` + hex(style.BackgroundColor) + `"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`)
	b.WriteString(`<p:spTree>` + emptyGroup)

	// Title.
	writeShapeStart(&b, 2, "Title", titleBox, "")
	b.WriteString(`<p:txBody><a:bodyPr wrap="square" anchor="b"/><a:lstStyle/><a:p>`)
	if index == 0 {
		b.WriteString(`<a:pPr algn="ctr"/>`)
	}
	writeRun(&b, s.Title, style.TitleFontSize, style.TitleColor, style.TitleFontFamily, true)
	b.WriteString(`</a:p></p:txBody></p:sp>`)

	// Accent bar.
	writeShapeStart(&b, 3, "Accent", accentBox, style.AccentColor)
	b.WriteString(`</p:sp>`)

	// Body.
	writeShapeStart(&b, 4, "Content", bodyBox, "")
	b.WriteString(`<p:txBody><a:bodyPr wrap="square" anchor="t"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	if len(s.Content) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	for _, line := range s.Content {
		b.WriteString(`<a:p><a:pPr marL="342900" indent="-342900"><a:buFont typeface="Arial"/><a:buChar char="&#8226;"/></a:pPr>`)
		writeRun(&b, line, style.ContentFontSize, style.ContentColor, style.ContentFontFamily, false)
		b.WriteString(`</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

// writeShapeStart opens a rectangle shape; the caller closes it after
// optionally adding a text body. An empty fill leaves the shape transparent.
func writeShapeStart(b *strings.Builder, id int, name string, at box, fill string) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, name)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, at.x, at.y, at.cx, at.cy)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	if fill == "" {
		b.WriteString(`<a:noFill/>`)
	} else {
		b.WriteString(`<a:solidFill><a:srgbClr val="` + hex(fill) + `"/></a:solidFill>`)
	}
	b.WriteString(`</p:spPr>`)
}

func writeRun(b *strings.Builder, text string, size int, color, font string, bold bool) {
	boldAttr := ""
	if bold {
		boldAttr = ` b="1"`
	}
	fmt.Fprintf(b, `<a:r><a:rPr lang="en-US" sz="%d"%s dirty="0">`, size*100, boldAttr)
	b.WriteString(`<a:solidFill><a:srgbClr val="` + hex(color) + `"/></a:solidFill>`)
	b.WriteString(`<a:latin typeface="` + escape(font) + `"/><a:cs typeface="` + escape(font) + `"/>`)
	b.WriteString(`</a:rPr><a:t>` + escape(text) + `</a:t></a:r>`)
}

// resolveStyle fills unusable fields of s from fallback and clamps font
// sizes to the editor bounds.
func resolveStyle(s, fallback model.SlideStyle) model.SlideStyle {
	pick := func(c, def string) string {
		if _, ok := normalizeHex(c); ok {
			return c
		}
		return def
	}
	s.BackgroundColor = pick(s.BackgroundColor, fallback.BackgroundColor)
	s.TitleColor = pick(s.TitleColor, fallback.TitleColor)
	s.ContentColor = pick(s.ContentColor, fallback.ContentColor)
	s.AccentColor = pick(s.AccentColor, fallback.AccentColor)
	if s.TitleFontSize <= 0 {
		s.TitleFontSize = fallback.TitleFontSize
	}
	if s.ContentFontSize <= 0 {
		s.ContentFontSize = fallback.ContentFontSize
	}
	s.TitleFontSize = min(max(s.TitleFontSize, model.MinTitleFontSize), model.MaxTitleFontSize)
	s.ContentFontSize = min(max(s.ContentFontSize, model.MinContentFontSize), model.MaxContentFontSize)
	if strings.TrimSpace(s.TitleFontFamily) == "" {
		s.TitleFontFamily = fallback.TitleFontFamily
	}
	if strings.TrimSpace(s.ContentFontFamily) == "" {
		s.ContentFontFamily = fallback.ContentFontFamily
	}
	return s
}

// normalizeHex turns #RGB or #RRGGBB into RRGGBB.
func normalizeHex(c string) (string, bool) {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	switch len(c) {
	case 3:
		return strings.ToUpper(string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})), true
	case 6:
		return strings.ToUpper(c), true
	}
	return "", false
}

func hex(c string) string {
	if v, ok := normalizeHex(c); ok {
		return v
	}
	return "000000"
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
