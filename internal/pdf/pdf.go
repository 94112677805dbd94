// Package pdf renders the assembled block sequence into an e-ink friendly
// PDF: letter pages, one-inch margins, embedded Unicode fonts when
// available and grayscale images.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"rsspress/internal/images"
	"rsspress/internal/layout"
)

// Page geometry in points. Letter is 612x792; margins are one inch.
const (
	pageMargin = 72.0
	pageWidth  = 612.0

	contentWidth = pageWidth - 2*pageMargin

	// maxImageWidth caps placed images; minImageHeight keeps tiny
	// decorations from collapsing to a sliver.
	maxImageWidth  = 400.0
	minImageHeight = 50.0
)

// ubuntuFonts are the TTF files looked up under FontsDir. All four must be
// present for the family to be registered.
var ubuntuFonts = map[string]string{
	"":   "Ubuntu-Regular.ttf",
	"B":  "Ubuntu-Bold.ttf",
	"I":  "Ubuntu-Italic.ttf",
	"BI": "Ubuntu-BoldItalic.ttf",
}

// Renderer writes block sequences to PDF files.
type Renderer struct {
	// FontsDir holds the Ubuntu TTF files. When missing the renderer
	// falls back to the built-in Helvetica core font.
	FontsDir string
	// Fetcher downloads content images. Nil disables image embedding;
	// image blocks then render their placeholder text.
	Fetcher *images.Fetcher
}

// style bundles the font parameters for one typographic token.
type style struct {
	family  string
	variant string
	size    float64
	leading float64
}

// Render writes the blocks to outPath.
func (r *Renderer) Render(ctx context.Context, blocks []layout.Block, outPath string) error {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)

	body := r.registerFonts(doc)
	styles := map[layout.Style]style{
		layout.StyleTitle:    {body, "B", 24, 28},
		layout.StyleSubtitle: {body, "B", 18, 22},
		layout.StyleSection:  {body, "B", 16, 20},
		layout.StyleMeta:     {body, "", 11, 14},
		layout.StyleContent:  {body, "", 12, 16},
		layout.StyleList:     {body, "", 12, 16},
		layout.StyleQuote:    {body, "I", 11, 15},
		layout.StyleCode:     {"Courier", "", 10, 13},
	}

	doc.AddPage()
	for _, b := range blocks {
		r.renderBlock(ctx, doc, styles, b)
		if doc.Err() {
			return fmt.Errorf("render pdf: %w", doc.Error())
		}
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

func (r *Renderer) renderBlock(ctx context.Context, doc *gofpdf.Fpdf, styles map[layout.Style]style, b layout.Block) {
	switch b.Kind {
	case layout.BlockPageBreak:
		doc.AddPage()
	case layout.BlockSpacer:
		doc.Ln(b.Pts)
	case layout.BlockTitle:
		s := styles[b.Style]
		doc.SetFont(s.family, s.variant, s.size)
		doc.CellFormat(0, s.leading, b.Text, "", 1, "C", false, 0, "")
		doc.Ln(s.leading / 2)
	case layout.BlockSubtitle, layout.BlockSectionHeading:
		s := styles[b.Style]
		doc.SetFont(s.family, s.variant, s.size)
		doc.MultiCell(0, s.leading, b.Text, "", "L", false)
	case layout.BlockListItem:
		s := styles[b.Style]
		doc.SetFont(s.family, s.variant, s.size)
		doc.SetLeftMargin(pageMargin + 20)
		doc.MultiCell(0, s.leading, "• "+b.Text, "", "L", false)
		doc.SetLeftMargin(pageMargin)
	case layout.BlockQuote:
		s := styles[b.Style]
		doc.SetFont(s.family, s.variant, s.size)
		doc.SetLeftMargin(pageMargin + 30)
		doc.SetRightMargin(pageMargin + 30)
		doc.MultiCell(0, s.leading, b.Text, "", "L", false)
		doc.SetLeftMargin(pageMargin)
		doc.SetRightMargin(pageMargin)
	case layout.BlockCodeBlock:
		s := styles[b.Style]
		doc.SetFont(s.family, s.variant, s.size)
		doc.MultiCell(0, s.leading, b.Text, "1", "L", false)
		doc.Ln(s.leading / 2)
	case layout.BlockImage:
		r.drawImage(ctx, doc, styles, b)
	default:
		s := styles[b.Style]
		doc.SetFont(s.family, s.variant, s.size)
		align := "L"
		if b.Style == layout.StyleContent {
			align = "J"
		}
		doc.MultiCell(0, s.leading, b.Text, "", align, false)
	}
}

// drawImage embeds the grayscale image centered and scaled to fit, or a
// placeholder line when the download fails.
func (r *Renderer) drawImage(ctx context.Context, doc *gofpdf.Fpdf, styles map[layout.Style]style, b layout.Block) {
	if r.Fetcher != nil {
		if g, err := r.Fetcher.Fetch(ctx, b.URL); err == nil {
			r.placeImage(doc, b.URL, g)
			return
		} else {
			log.Warn().Err(err).Str("url", b.URL).Msg("image unavailable, rendering placeholder")
		}
	}
	alt := b.Alt
	if alt == "" {
		alt = "Article image"
	}
	s := styles[layout.StyleMeta]
	doc.SetFont(s.family, "I", 10)
	doc.CellFormat(0, s.leading, fmt.Sprintf("[Image: %s - Failed to load]", alt), "", 1, "C", false, 0, "")
	doc.Ln(8)
}

func (r *Renderer) placeImage(doc *gofpdf.Fpdf, url string, g *images.Grayscale) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(url, opts, bytes.NewReader(g.PNG))
	if doc.Err() {
		return
	}

	w := float64(g.Width)
	h := float64(g.Height)
	if w > maxImageWidth {
		h = h * maxImageWidth / w
		w = maxImageWidth
	}
	if h < minImageHeight {
		w = w * minImageHeight / h
		h = minImageHeight
	}
	x := pageMargin + (contentWidth-w)/2

	doc.Ln(8)
	doc.ImageOptions(url, x, doc.GetY(), w, h, true, opts, 0, "")
	doc.Ln(16)
}

// registerFonts adds the Ubuntu family when every face is present under
// FontsDir and returns the body family name to use.
func (r *Renderer) registerFonts(doc *gofpdf.Fpdf) string {
	if r.FontsDir == "" {
		return "Helvetica"
	}
	for _, file := range ubuntuFonts {
		if _, err := os.Stat(filepath.Join(r.FontsDir, file)); err != nil {
			log.Warn().Str("dir", r.FontsDir).Str("file", file).Msg("font not found, using built-in fonts")
			return "Helvetica"
		}
	}
	for variant, file := range ubuntuFonts {
		doc.AddUTF8Font("Ubuntu", variant, filepath.Join(r.FontsDir, file))
	}
	if doc.Err() {
		log.Warn().Err(doc.Error()).Msg("font registration failed, using built-in fonts")
		doc.ClearError()
		return "Helvetica"
	}
	return "Ubuntu"
}
