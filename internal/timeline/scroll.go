package timeline

// ScrollGeometry describes the scrolling waveform strip. Offsets are measured
// from the left edge of the content; the insets let the strip scroll past
// both of its ends so any time can sit under the selection box.
type ScrollGeometry struct {
	ContentWidth  float64
	ViewportWidth float64
	InsetLeft     float64
	InsetRight    float64
}

// ScrollableWidth is how far the strip can travel
func (g ScrollGeometry) ScrollableWidth() float64 {
	return g.ContentWidth + g.InsetLeft + g.InsetRight - g.ViewportWidth
}

// CenteredGeometry builds insets that keep a selection box of the track's
// selection width centred in the viewport.
func CenteredGeometry(contentWidth, viewportWidth, totalDuration, selectionDuration float64) ScrollGeometry {
	g := ScrollGeometry{ContentWidth: contentWidth, ViewportWidth: viewportWidth}
	if totalDuration <= 0 {
		return g
	}
	selectionWidth := contentWidth * selectionDuration / totalDuration
	inset := (viewportWidth - selectionWidth) / 2
	if inset < 0 {
		inset = 0
	}
	g.InsetLeft = inset
	g.InsetRight = inset
	return g
}

// ScrollMapper converts between scroll offsets and selection start times.
// OffsetToTime and TimeToOffset are exact inverses.
type ScrollMapper struct {
	geom       ScrollGeometry
	scrollable float64
	changeable float64
}

// NewScrollMapper returns ok == false when there is nothing to map: the strip
// cannot scroll or the selection already covers the whole track.
func NewScrollMapper(geom ScrollGeometry, totalDuration, selectionDuration float64) (ScrollMapper, bool) {
	scrollable := geom.ScrollableWidth()
	changeable := totalDuration - selectionDuration
	if !(scrollable > 0) || !(changeable > 0) {
		return ScrollMapper{}, false
	}
	return ScrollMapper{geom: geom, scrollable: scrollable, changeable: changeable}, true
}

func (m ScrollMapper) OffsetToTime(x float64) float64 {
	return m.changeable / m.scrollable * (x + m.geom.InsetLeft)
}

func (m ScrollMapper) TimeToOffset(t float64) float64 {
	return m.scrollable/m.changeable*t - m.geom.InsetLeft
}

// ClampOffset bounds x to the range the strip can actually scroll
func (m ScrollMapper) ClampOffset(x float64) float64 {
	lo := -m.geom.InsetLeft
	hi := m.scrollable - m.geom.InsetLeft
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
