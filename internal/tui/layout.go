// pattern: Functional Core

package tui

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Header  Region // Title + subtitle
	List    Region // Repository list (left, 40%)
	Preview Region // Preview pane (right, 60%)
	Help    Region // Key help (1 line)
}

// Fixed heights for chrome elements
const (
	headerHeight = 2 // Title + subtitle
	helpHeight   = 1
	marginHeight = 1 // Blank line below the header
	boxChrome    = 2 // Border on each side
	boxPadding   = 2 // Horizontal padding inside the border
)

// ComputeLayout splits the terminal into header, list, preview and help.
func ComputeLayout(width, height int) Layout {
	contentHeight := height - headerHeight - helpHeight - marginHeight
	if contentHeight < 4 {
		contentHeight = 4
	}

	listWidth := int(float64(width) * 0.4)
	previewWidth := width - listWidth

	y := 0
	header := Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight + marginHeight

	listRegion := Region{X: 0, Y: y, Width: listWidth, Height: contentHeight}
	preview := Region{X: listWidth, Y: y, Width: previewWidth, Height: contentHeight}
	y += contentHeight

	help := Region{X: 0, Y: y, Width: width, Height: helpHeight}

	return Layout{Header: header, List: listRegion, Preview: preview, Help: help}
}

// Inner returns the content size of a bordered, padded box filling r.
func (r Region) Inner() (width, height int) {
	width = r.Width - boxChrome - boxPadding
	height = r.Height - boxChrome
	return max(width, 1), max(height, 1)
}
