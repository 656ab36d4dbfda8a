package ui

import "log/slog"

// EventType is a DOM-style event name.
type EventType string

// Event types.
const (
	EventClick EventType = "click"
)

// Event is a user interaction with one element of a page.
type Event struct {
	Type   EventType
	Target string
}

// Action maps the current state and the event to the next state.
type Action func(state LoanForm, page *Page, ev Event) LoanForm

// Binding attaches an Action to an (element, event type) pair.
type Binding struct {
	ElementID string
	Event     EventType
	Action    Action
}

// DefaultBindings is the one table of interactive behavior of the book page.
func DefaultBindings() []Binding {
	return []Binding{
		{ElementID: OpenLoanButtonID, Event: EventClick, Action: func(s LoanForm, _ *Page, _ Event) LoanForm {
			return s.Open()
		}},
		{ElementID: CloseLoanButtonID, Event: EventClick, Action: func(s LoanForm, _ *Page, _ Event) LoanForm {
			return s.Close()
		}},
		{ElementID: DocumentID, Event: EventClick, Action: func(s LoanForm, p *Page, ev Event) LoanForm {
			return s.OutsideClick(p, ev.Target)
		}},
	}
}

type bindingKey struct {
	element string
	event   EventType
}

// Dispatcher routes events through a binding table. An event visits its
// target first and then every ancestor up to the document, the way a DOM
// event bubbles.
type Dispatcher struct {
	page     *Page
	bindings map[bindingKey][]Action
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher for page with the given bindings.
func NewDispatcher(page *Page, bindings []Binding, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		page:     page,
		bindings: make(map[bindingKey][]Action, len(bindings)),
		logger:   logger,
	}
	for _, b := range bindings {
		key := bindingKey{element: b.ElementID, event: b.Event}
		d.bindings[key] = append(d.bindings[key], b.Action)
	}
	return d
}

// Dispatch applies ev to state and returns the next state.
func (d *Dispatcher) Dispatch(state LoanForm, ev Event) LoanForm {
	if ev.Target == "" {
		return state
	}
	if !d.page.Known(ev.Target) {
		d.logger.Debug("event on unknown element", slog.String("target", ev.Target))
	}

	for _, el := range d.page.Path(ev.Target) {
		for _, action := range d.bindings[bindingKey{element: el, event: ev.Type}] {
			state = action(state, d.page, ev)
		}
	}
	return state
}
