package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/ai-slides/internal/model"
)

func testRenderer() *PPTXRenderer {
	r := NewPPTXRenderer()
	r.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[f.Name] = string(body)
	}
	return parts
}

func requireWellFormed(t *testing.T, name, body string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(body))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, "part %s", name)
	}
}

func deck() []model.Slide {
	return []model.Slide{
		{Title: "Exercise", Content: []string{"Why it matters"}},
		{Title: "Benefit 1", Content: []string{"Better sleep", "More energy"}},
		{Title: "R&D <notes>", Content: []string{`"quoted" & escaped`}},
	}
}

func TestRender_SlideCountMatchesDeck(t *testing.T) {
	data, err := testRenderer().Render("Exercise", deck(), nil)
	require.NoError(t, err)

	parts := readParts(t, data)
	slideCount := 0
	for name, body := range parts {
		requireWellFormed(t, name, body)
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			slideCount++
		}
	}
	require.Equal(t, 3, slideCount)
	require.Contains(t, parts, "[Content_Types].xml")
	require.Contains(t, parts, "ppt/slides/_rels/slide3.xml.rels")
	require.Equal(t, 3, strings.Count(parts["ppt/presentation.xml"], "<p:sldId "))
	require.Contains(t, parts["docProps/core.xml"], "<dc:title>Exercise</dc:title>")
	require.Contains(t, parts["docProps/app.xml"], "<Slides>3</Slides>")
}

func TestRender_DefaultStyles(t *testing.T) {
	data, err := testRenderer().Render("", deck(), nil)
	require.NoError(t, err)
	parts := readParts(t, data)

	first := parts["ppt/slides/slide1.xml"]
	require.Contains(t, first, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="4472C4"/>`)
	require.Contains(t, first, `sz="4800"`)

	second := parts["ppt/slides/slide2.xml"]
	require.Contains(t, second, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="FFFFFF"/>`)
	require.Contains(t, second, `sz="3200"`)
	require.Contains(t, second, `sz="1800"`)
	require.Equal(t, 2, strings.Count(second, "<a:buChar"))

	require.Contains(t, parts["docProps/core.xml"], "<dc:title>Exercise</dc:title>")
}

func TestRender_AppliesStyles(t *testing.T) {
	styles := model.DefaultStyles(3)
	styles[1].BackgroundColor = "#E74C3C"
	styles[1].TitleFontFamily = "Georgia"
	styles[1].TitleFontSize = 40
	styles[2].ContentColor = "#abc"
	styles[2].AccentColor = "not-a-colour"

	data, err := testRenderer().Render("Styled", deck(), styles)
	require.NoError(t, err)
	parts := readParts(t, data)

	second := parts["ppt/slides/slide2.xml"]
	require.Contains(t, second, `<a:srgbClr val="E74C3C"/>`)
	require.Contains(t, second, `typeface="Georgia"`)
	require.Contains(t, second, `sz="4000"`)

	third := parts["ppt/slides/slide3.xml"]
	require.Contains(t, third, `<a:srgbClr val="AABBCC"/>`)
	require.NotContains(t, third, "not-a-colour")
}

func TestRender_ClampsFontSizes(t *testing.T) {
	styles := model.DefaultStyles(3)
	styles[1].TitleFontSize = 100000
	styles[1].ContentFontSize = 1

	data, err := testRenderer().Render("Clamped", deck(), styles)
	require.NoError(t, err)
	second := readParts(t, data)["ppt/slides/slide2.xml"]
	require.Contains(t, second, `sz="7200"`)
	require.Contains(t, second, `sz="1200"`)
	require.NotContains(t, second, `sz="10000000"`)
	require.NotContains(t, second, `sz="100"`)
}

func TestRender_EscapesText(t *testing.T) {
	data, err := testRenderer().Render("", deck(), nil)
	require.NoError(t, err)
	third := readParts(t, data)["ppt/slides/slide3.xml"]
	require.Contains(t, third, "R&amp;D &lt;notes&gt;")
	require.Contains(t, third, "&#34;quoted&#34; &amp; escaped")
}

func TestRender_EmptyContentStillValid(t *testing.T) {
	data, err := testRenderer().Render("", []model.Slide{{Title: "Only"}}, nil)
	require.NoError(t, err)
	parts := readParts(t, data)
	requireWellFormed(t, "slide1", parts["ppt/slides/slide1.xml"])
	require.Contains(t, parts["ppt/slides/slide1.xml"], "<a:endParaRPr")
}

func TestRender_NoSlides(t *testing.T) {
	_, err := testRenderer().Render("x", nil, nil)
	require.ErrorIs(t, err, ErrNoSlides)
}

func TestNormalizeHex(t *testing.T) {
	v, ok := normalizeHex("#4472c4")
	require.True(t, ok)
	require.Equal(t, "4472C4", v)

	v, ok = normalizeHex("#fff")
	require.True(t, ok)
	require.Equal(t, "FFFFFF", v)

	for _, bad := range []string{"", "#12", "#GGGGGG", "#12345", "blue"} {
		_, ok := normalizeHex(bad)
		require.False(t, ok, bad)
	}
}
