package services

import (
	"context"
	"net/http"
)

// Recognized actions. Matching is exact and case-sensitive.
const (
	ActionForm   = "form"
	ActionDigest = "digest"
)

// ActionRequest is one decoded call to the contact endpoint.
type ActionRequest struct {
	Method string
	Action string
	Form   ContactForm
}

// Dispatcher routes an ActionRequest to the operation it names.
type Dispatcher struct {
	contacts *ContactService
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(contacts *ContactService) *Dispatcher {
	return &Dispatcher{contacts: contacts}
}

// Dispatch runs Submit for a POSTed "form" action and Digest for a "digest"
// action with any method. Everything else is an invalid action.
func (d *Dispatcher) Dispatch(ctx context.Context, req *ActionRequest) (*ActionResult, error) {
	switch {
	case req.Action == ActionForm && req.Method == http.MethodPost:
		return d.contacts.Submit(ctx, req.Form)
	case req.Action == ActionDigest:
		return d.contacts.Digest(ctx)
	default:
		return nil, ErrInvalidAction()
	}
}
