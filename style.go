package triptych

// Spacing constants used by page layout.
const (
	SpaceSM float32 = 4
	SpaceMD float32 = 8
	SpaceLG float32 = 12
	SpaceXL float32 = 16
	Space2X float32 = 24
	Space3X float32 = 32
)

// Style defines the visual appearance of the reading surface.
type Style struct {
	// Colors
	BackgroundColor uint32 // Behind the pages
	PageColor       uint32 // Page paper
	TextColor       uint32 // Body text
	CaptionColor    uint32 // Page caption and progress text
	AccentColor     uint32 // Progress bar fill and page edge
	NoticeColor     uint32 // Notice background
	WarningColor    uint32 // Warning notice background

	// Sizing
	FontScale   float32 // Multiplier on the bitmap font's cell
	LineSpacing float32 // Line height as a multiple of the glyph height
	PageMargin  float32 // Inset of the text block from the page edge
	EdgeWidth   float32 // Width of the separator drawn at a page's left edge
}

// DefaultStyle returns a light, paper-like style.
func DefaultStyle() Style {
	return Style{
		BackgroundColor: RGBA(40, 40, 44, 255),
		PageColor:       RGBA(250, 246, 236, 255),
		TextColor:       RGBA(30, 30, 30, 255),
		CaptionColor:    RGBA(120, 115, 105, 255),
		AccentColor:     RGBA(180, 120, 60, 255),
		NoticeColor:     RGBA(60, 60, 66, 230),
		WarningColor:    RGBA(170, 60, 50, 230),

		FontScale:   1.5,
		LineSpacing: 1.4,
		PageMargin:  Space3X,
		EdgeWidth:   1,
	}
}

// NightStyle returns a dark style for low light reading.
func NightStyle() Style {
	s := DefaultStyle()
	s.BackgroundColor = ColorBlack
	s.PageColor = RGBA(28, 28, 30, 255)
	s.TextColor = RGBA(200, 196, 186, 255)
	s.CaptionColor = RGBA(110, 110, 110, 255)
	s.AccentColor = RGBA(90, 140, 180, 255)
	return s
}

// LineHeight returns the advance between text baselines for atlas.
func (s Style) LineHeight(atlas *FontAtlas) float32 {
	if atlas == nil {
		return 0
	}
	spacing := s.LineSpacing
	if spacing < 1 {
		spacing = 1
	}
	return atlas.LineHeight(s.FontScale) * spacing
}
