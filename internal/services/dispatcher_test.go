package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "contactform/pkg/errors"
)

func TestDispatchRouting(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		action      string
		wantErr     bool
		wantSuccess string
		wantMessage string
	}{
		{name: "form via POST", method: http.MethodPost, action: "form", wantSuccess: "Message received and notification sent"},
		{name: "form via GET", method: http.MethodGet, action: "form", wantErr: true},
		{name: "form via PUT", method: http.MethodPut, action: "form", wantErr: true},
		{name: "digest via GET", method: http.MethodGet, action: "digest", wantMessage: "No contacts today"},
		{name: "digest via POST", method: http.MethodPost, action: "digest", wantMessage: "No contacts today"},
		{name: "digest via DELETE", method: http.MethodDelete, action: "digest", wantMessage: "No contacts today"},
		{name: "uppercase action", method: http.MethodPost, action: "FORM", wantErr: true},
		{name: "padded action", method: http.MethodGet, action: " digest", wantErr: true},
		{name: "empty action", method: http.MethodPost, action: "", wantErr: true},
		{name: "unknown action", method: http.MethodGet, action: "list", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, mailer := newTestContactService(t)
			d := NewDispatcher(svc)

			res, err := d.Dispatch(context.Background(), &ActionRequest{
				Method: tt.method,
				Action: tt.action,
				Form:   validForm(),
			})

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsInvalidAction(err))
				assert.Empty(t, mailer.sent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}
