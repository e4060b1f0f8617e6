package mailtemplate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Template
		wantErr error
	}{
		{name: "unix line breaks", raw: "Subject\nLine 1\nLine 2", want: Template{Subject: "Subject", Body: "Line 1\nLine 2"}},
		{name: "windows line breaks", raw: "Subject\r\nLine 1\r\nLine 2", want: Template{Subject: "Subject", Body: "Line 1\nLine 2"}},
		{name: "empty body is allowed", raw: "Subject\n", want: Template{Subject: "Subject", Body: ""}},
		{name: "single line", raw: "Only a subject", wantErr: ErrInvalidTemplate},
		{name: "empty", raw: "", wantErr: ErrInvalidTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	tpl := Template{
		Subject: "Goodbye {{student.givenname}}",
		Body:    "Dear {{student.givenname}} {{student.surname}}, {{requestBody.note}}",
	}

	got, err := RenderTemplate(tpl, Data{
		GivenName:   "Max",
		Surname:     "Mustermann",
		RequestBody: map[string]interface{}{"note": "see you"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Goodbye Max", got.Subject)
	assert.Equal(t, "Dear Max Mustermann, see you", got.Body)
}

func TestRenderMissingValuesAreEmpty(t *testing.T) {
	got, err := Render("Hi {{student.givenname}}{{requestBody.unknown}}!", Data{GivenName: "Ida"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ida!", got)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "mail_offboarding.txt", FileName("offboarding"))
}
