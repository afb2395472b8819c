package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		form Form
		want Errors
	}{
		{
			name: "valid",
			form: Form{Name: "Ada", Email: "ada@example.com", Message: "Hello there, nice site."},
			want: nil,
		},
		{
			name: "all empty",
			form: Form{},
			want: Errors{
				"name":    "Name is required",
				"email":   "Email is required",
				"message": "Message is required",
			},
		},
		{
			name: "whitespace only counts as empty",
			form: Form{Name: "   ", Email: " ", Message: "\n\t"},
			want: Errors{
				"name":    "Name is required",
				"email":   "Email is required",
				"message": "Message is required",
			},
		},
		{
			name: "bad email",
			form: Form{Name: "Ada", Email: "ada@example", Message: "Hello there, nice site."},
			want: Errors{"email": "Please enter a valid email address"},
		},
		{
			name: "email with space",
			form: Form{Name: "Ada", Email: "ada lovelace@example.com", Message: "Hello there, nice site."},
			want: Errors{"email": "Please enter a valid email address"},
		},
		{
			name: "email with surrounding space",
			form: Form{Name: " Ada ", Email: " ada@example.com", Message: "Hello there, nice site."},
			want: Errors{"email": "Please enter a valid email address"},
		},
		{
			name: "short message after trim",
			form: Form{Name: "Ada", Email: "ada@example.com", Message: "   short    "},
			want: Errors{"message": "Message must be at least 10 characters"},
		},
		{
			name: "exactly ten characters",
			form: Form{Name: "Ada", Email: "ada@example.com", Message: "0123456789"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.form))
		})
	}
}

func TestNormalize(t *testing.T) {
	f := Form{Name: " Ada ", Email: " a@b.c\n", Message: "  hi  "}.Normalize()
	assert.Equal(t, Form{Name: "Ada", Email: "a@b.c", Message: "hi"}, f)
}
