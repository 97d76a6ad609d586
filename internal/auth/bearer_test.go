package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		set       bool
		wantToken string
		wantOK    bool
	}{
		{name: "absent", set: false},
		{name: "empty", header: "", set: true},
		{name: "scheme only", header: "Bearer", set: true},
		{name: "scheme and trailing space", header: "Bearer ", set: true},
		{name: "bearer", header: "Bearer abc.def.ghi", set: true, wantToken: "abc.def.ghi", wantOK: true},
		{name: "scheme ignored", header: "Token abc", set: true, wantToken: "abc", wantOK: true},
		{name: "lowercase scheme", header: "bearer abc", set: true, wantToken: "abc", wantOK: true},
		{name: "extra whitespace", header: "  Bearer\t abc  ", set: true, wantToken: "abc", wantOK: true},
		{name: "extra fields ignored", header: "Bearer abc def", set: true, wantToken: "abc", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.set {
				h.Set(AuthorizationHeader, tt.header)
			}

			token, ok := BearerToken(h)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
