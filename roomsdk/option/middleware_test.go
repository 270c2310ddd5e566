package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json password",
			in:   `{"name":"Room1","password":"se\"cret"}`,
			want: `{"name":"Room1","password":"[REDACTED]"}`,
		},
		{
			name: "json password with spacing",
			in:   `{"password" : "secret"}`,
			want: `{"password" : "[REDACTED]"}`,
		},
		{
			name: "form password",
			in:   "roomId=3&password=hunter2",
			want: "roomId=3&password=[REDACTED]",
		},
		{
			name: "form password first",
			in:   "password=hunter2&roomId=3",
			want: "password=[REDACTED]&roomId=3",
		},
		{
			name: "headers",
			in:   "POST /room/delete/ HTTP/1.1\r\nCookie: session=abc\r\nAccept: application/json\r\n",
			want: "POST /room/delete/ HTTP/1.1\r\nCookie: [REDACTED]\r\nAccept: application/json\r\n",
		},
		{
			name: "nothing to hide",
			in:   `{"name":"Room1"}`,
			want: `{"name":"Room1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redact(tt.in))
		})
	}
}
