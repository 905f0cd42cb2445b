package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"kenya":         "Kenya",
		"south_africa":  "South Africa",
		"cote-d-ivoire": "Cote D Ivoire",
		" PERU ":        "Peru",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), in)
	}
}
