package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractError(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bare string payload",
			body: `"rate limit exceeded"`,
			want: "rate limit exceeded",
		},
		{
			name: "message field",
			body: `{"message":"User not found"}`,
			want: "User not found",
		},
		{
			name: "detail field",
			body: `{"detail":"Authentication credentials were not provided."}`,
			want: "Authentication credentials were not provided.",
		},
		{
			name: "error field",
			body: `{"error":"internal failure"}`,
			want: "internal failure",
		},
		{
			name: "message wins over detail",
			body: `{"detail":"second","message":"first"}`,
			want: "first",
		},
		{
			name: "field-keyed validation array",
			body: `{"new_email":["Enter a valid email address."]}`,
			want: "Enter a valid email address.",
		},
		{
			name: "first field in document order",
			body: `{"name":["This field is required."],"price":["A valid number is required."]}`,
			want: "This field is required.",
		},
		{
			name: "plain string field",
			body: `{"reason":"expired"}`,
			want: "expired",
		},
		{
			name: "empty array then string field",
			body: `{"a":[],"b":"usable"}`,
			want: "usable",
		},
		{
			name: "nothing usable",
			body: `{"count":3}`,
			want: Fallback,
		},
		{
			name: "empty body",
			body: "",
			want: Fallback,
		},
		{
			name: "malformed json",
			body: `{"detail":`,
			want: Fallback,
		},
		{
			name: "html error page",
			body: `<html><body>502 Bad Gateway</body></html>`,
			want: Fallback,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractError([]byte(tc.body)))
		})
	}
}
