package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		injected string
		want     string
	}{
		{name: "default", injected: fallback, want: "0.0.0-dev"},
		{name: "leading v", injected: "v1.4.0", want: "1.4.0"},
		{name: "short", injected: "2.1", want: "2.1.0"},
		{name: "garbage", injected: "not-a-version", want: "0.0.0-dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := version
			t.Cleanup(func() { version = old })

			version = tt.injected
			assert.Equal(t, tt.want, String())
		})
	}
}
