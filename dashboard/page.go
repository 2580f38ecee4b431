// Package dashboard arranges narrative text and charts into the panels of
// the housing and ML pages. Pages are plain values recomputed from loaded
// tables on every interaction; the host only displays them.
package dashboard

import (
	"github.com/YuminosukeSato/sfhousing/chart"
)

// Panel ids of the housing page.
const (
	PanelSF           = "sf"
	PanelCounties     = "counties"
	PanelCorrelation  = "correlation"
	PanelDensity      = "density"
	PanelConstruction = "construction"
)

// ArtifactName is the image written when the construction panel is drawn.
const ArtifactName = "pop_newcon_cumulated.png"

// ControlKind is the widget type of a control.
type ControlKind int

const (
	ControlSelect ControlKind = iota
	ControlSlider
	ControlText
)

func (k ControlKind) String() string {
	switch k {
	case ControlSelect:
		return "select"
	case ControlSlider:
		return "slider"
	case ControlText:
		return "text"
	default:
		return "unknown"
	}
}

// Option is one choice of a select control.
type Option struct {
	Value string
	Label string
}

// Control is an input widget. Min, Max and Step apply to sliders only.
type Control struct {
	Name    string
	Label   string
	Kind    ControlKind
	Options []Option
	Value   string
	Min     int
	Max     int
	Step    int
}

// Selected reports whether o is the current value of c.
func (c Control) Selected(o Option) bool {
	return c.Value == o.Value
}

// Panel is one section of a page. Chart is nil for text-only panels.
type Panel struct {
	ID         string
	Heading    string
	Paragraphs []string
	Chart      *chart.Chart
	// Epilogue is narrative shown below the chart.
	Epilogue []string
	Controls []Control
}

// Page is a full render description.
type Page struct {
	Title  string
	Intro  []string
	Panels []Panel
}

// Panel returns the panel with the given id.
func (p *Page) Panel(id string) (*Panel, bool) {
	for i := range p.Panels {
		if p.Panels[i].ID == id {
			return &p.Panels[i], true
		}
	}
	return nil, false
}

// Charts returns every chart of the page in panel order.
func (p *Page) Charts() []*chart.Chart {
	var out []*chart.Chart
	for _, panel := range p.Panels {
		if panel.Chart != nil {
			out = append(out, panel.Chart)
		}
	}
	return out
}

func options(values []string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}
