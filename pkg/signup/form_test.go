package signup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() Form {
	return Form{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
		Name:     "Alice",
	}
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Empty(t, ValidateForm(validForm()))
}

func TestValidateForm_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Form)
		field  string
	}{
		{"missing username", func(f *Form) { f.Username = "" }, "username"},
		{"short username", func(f *Form) { f.Username = "al" }, "username"},
		{"long username", func(f *Form) { f.Username = strings.Repeat("a", 33) }, "username"},
		{"username with at sign", func(f *Form) { f.Username = "al@ce" }, "username"},
		{"missing password", func(f *Form) { f.Password = "" }, "password"},
		{"short password", func(f *Form) { f.Password = "short" }, "password"},
		{"password over 72 bytes", func(f *Form) { f.Password = strings.Repeat("a", 73) }, "password"},
		{"multibyte password over 72 bytes", func(f *Form) { f.Password = strings.Repeat("é", 40) }, "password"},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }, "email"},
		{"missing name", func(f *Form) { f.Name = "" }, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.modify(&form)

			errs := ValidateForm(form)
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.field, errs[0].Field)
				assert.NotEmpty(t, errs[0].Message)
			}
		})
	}
}

func TestValidateForm_MultipleErrors(t *testing.T) {
	errs := ValidateForm(Form{})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"username", "password", "email", "name"}, fields)
	assert.Equal(t, "Username is required", errs[0].Message)
}

func TestForm_Normalize(t *testing.T) {
	f := Form{Username: "  alice ", Email: " a@example.com ", Name: " Alice ", Password: " pw "}.Normalize()
	assert.Equal(t, "alice", f.Username)
	assert.Equal(t, "a@example.com", f.Email)
	assert.Equal(t, "Alice", f.Name)
	assert.Equal(t, " pw ", f.Password)
}

func TestValidateForm_PasswordByteLimit(t *testing.T) {
	form := validForm()
	form.Password = strings.Repeat("é", 36) // exactly 72 bytes
	assert.Empty(t, ValidateForm(form))

	form.Password = strings.Repeat("é", 40)
	fields := ValidateForm(form)
	if assert.Len(t, fields, 1) {
		assert.Equal(t, "password", fields[0].Field)
		assert.Equal(t, "Password must be at most 72 bytes", fields[0].Message)
	}
}
