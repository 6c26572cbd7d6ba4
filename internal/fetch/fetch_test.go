package fetch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentLength(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   int64
	}{
		{"missing header map", nil, -1},
		{"absent", http.Header{}, -1},
		{"valid", http.Header{"Content-Length": {"100"}}, 100},
		{"zero", http.Header{"Content-Length": {"0"}}, 0},
		{"garbage", http.Header{"Content-Length": {"12ab"}}, -1},
		{"negative", http.Header{"Content-Length": {"-5"}}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{Header: tt.header}
			assert.Equal(t, tt.want, resp.ContentLength())
		})
	}
}
