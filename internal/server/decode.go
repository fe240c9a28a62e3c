package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	goahttp "goa.design/goa/v3/http"

	"contactform/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

const actionKey = "action"

// jsonActionBody is the JSON form of a contact endpoint call.
type jsonActionBody struct {
	Action  *string `json:"action"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Inquiry string  `json:"inquiry"`
	Message string  `json:"message"`
}

// decodeActionRequest reads the action and form fields of a call. A query
// string action wins over a body action, and the action defaults to "form".
// Only POST bodies are read, and a body that cannot be decoded is an error
// only when the call resolves to "form".
func decodeActionRequest(w http.ResponseWriter, r *http.Request) (*services.ActionRequest, error) {
	req := &services.ActionRequest{Method: r.Method, Action: services.ActionForm}

	queryAction, hasQueryAction := r.URL.Query()[actionKey]
	if hasQueryAction {
		req.Action = queryAction[0]
	}

	if r.Method != http.MethodPost || r.Body == nil {
		return req, nil
	}
	if hasQueryAction && req.Action != services.ActionForm {
		return req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	bodyAction, err := decodeBody(r, &req.Form)
	if err != nil {
		return nil, services.ErrInvalidBody(err)
	}
	if !hasQueryAction && bodyAction != nil {
		req.Action = *bodyAction
	}
	return req, nil
}

// decodeBody fills form from a JSON, multipart or urlencoded body and
// returns the body action, if any. Other content types carry no fields.
func decodeBody(r *http.Request, form *services.ContactForm) (*string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "application/json":
		var body jsonActionBody
		if err := goahttp.RequestDecoder(r).Decode(&body); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		*form = services.ContactForm{
			Name:    body.Name,
			Email:   body.Email,
			Inquiry: body.Inquiry,
			Message: body.Message,
		}
		return body.Action, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
		return formFields(r.PostForm, form), nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return formFields(r.PostForm, form), nil

	default:
		return nil, nil
	}
}

func formFields(values url.Values, form *services.ContactForm) *string {
	*form = services.ContactForm{
		Name:    values.Get("name"),
		Email:   values.Get("email"),
		Inquiry: values.Get("inquiry"),
		Message: values.Get("message"),
	}
	if action, ok := values[actionKey]; ok && len(action) > 0 {
		return &action[0]
	}
	return nil
}
