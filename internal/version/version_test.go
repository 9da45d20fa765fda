package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetShortVersion(t *testing.T) {
	tests := []struct {
		build    string
		expected string
	}{
		{build: "v1.2.3", expected: "1.2.3"},
		{build: "1.2.3", expected: "1.2.3"},
		{build: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.build, func(t *testing.T) {
			prev := BuildVersion
			BuildVersion = tt.build
			defer func() { BuildVersion = prev }()

			assert.Equal(t, tt.expected, GetShortVersion())
		})
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := Get()
	assert.Contains(t, GetBuildInfo(), info.Version)
	assert.Contains(t, GetBuildInfo(), "go: "+info.GoVersion)
}
