package models

// Directive is what the conversation engine asks a channel adapter to
// render. The set of variants is closed: adapters switch over the concrete
// types and the compiler-enforced marker keeps outside packages from adding
// their own.
type Directive interface {
	directive()
}

// TextDirective sends a plain text reply.
type TextDirective struct {
	Body string
}

// CarouselDirective presents the catalog as a browsable list. Items carry
// a quick-reply payload the user can tap to select one.
type CarouselDirective struct {
	Title string
	Kind  CatalogItemKind
	Items []CatalogItem
}

// ButtonOption is one tappable choice attached to a reply.
type ButtonOption struct {
	Payload string
	Label   string
}

// ButtonsDirective sends a text reply with tappable choices.
type ButtonsDirective struct {
	Body    string
	Options []ButtonOption
}

// ConfirmationDirective asks the user to confirm or cancel a staged flow,
// echoing back the collected details.
type ConfirmationDirective struct {
	Summary string
	Yes     ButtonOption
	No      ButtonOption
}

// EscalationDirective acknowledges a handover to a human operator.
type EscalationDirective struct {
	Body string
}

// NoneDirective sends nothing. Used when an event carries no actionable
// message (delivery receipts, unsupported attachment types).
type NoneDirective struct{}

func (TextDirective) directive()         {}
func (CarouselDirective) directive()     {}
func (ButtonsDirective) directive()      {}
func (ConfirmationDirective) directive() {}
func (EscalationDirective) directive()   {}
func (NoneDirective) directive()         {}
