package layout

// BlockKind enumerates the layout block variants.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockSubtitle
	BlockSectionHeading
	BlockParagraph
	BlockListItem
	BlockQuote
	BlockCodeBlock
	BlockImage
	BlockSpacer
	BlockPageBreak
)

// Style is the typographic token a block renders with.
type Style int

const (
	StyleTitle Style = iota
	StyleSubtitle
	StyleSection
	StyleMeta
	StyleContent
	StyleList
	StyleQuote
	StyleCode
	StyleImage
)

// Block is one atomic unit of the rendered document. The block sequence is
// ordered and append-only; it is never reordered after assembly.
type Block struct {
	Kind  BlockKind
	Style Style
	Text  string
	Alt   string
	URL   string
	// Pts is the spacer height in points.
	Pts float64
}
