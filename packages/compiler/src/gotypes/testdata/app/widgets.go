package app

// Widget is the base of every widget
type Widget struct{}

func (w *Widget) SetVisible(visible bool) {}

func (w *Widget) Visible() bool { return true }

// HasText is implemented by widgets showing text
type HasText interface {
	SetText(text string)
}

// Label shows a line of text.
//
//uibind:renderable
type Label struct {
	Widget
	text string
}

func NewLabel() *Label { return &Label{} }

func (l *Label) SetText(text string) { l.text = text }

func (l *Label) Text() string { return l.text }

// SetWidth takes a boxed value.
func (l *Label) SetWidth(width *float64) {}

// SetTags is not visible to templates.
func (l *Label) SetTags(tags ...string) {}

// Align positions content horizontally
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Tabs holds labelled pages.
//
//uibind:childtag tab AddTab
//uibind:constructor NewTabs title
type Tabs struct {
	Widget
}

func NewTabs(title string) *Tabs { return &Tabs{} }

func (t *Tabs) AddTab(page *Widget) {}

func (t *Tabs) SetAlign(a Align) {}
