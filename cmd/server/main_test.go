package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurlHostForListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		listenAddr string
		want       string
	}{
		{listenAddr: ":8080", want: "localhost:8080"},
		{listenAddr: "127.0.0.1:9000", want: "127.0.0.1:9000"},
		{listenAddr: "0.0.0.0:8080", want: "localhost:8080"},
		{listenAddr: "[::]:8080", want: "localhost:8080"},
		{listenAddr: "[::1]:8080", want: "[::1]:8080"},
		{listenAddr: " chinook.internal:443 ", want: "chinook.internal:443"},
		{listenAddr: "", want: "localhost:8080"},
		{listenAddr: "   ", want: "localhost:8080"},
		{listenAddr: "localhost", want: "localhost"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, curlHostForListenAddr(tt.listenAddr), "listen addr %q", tt.listenAddr)
	}
}
