package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"springfield", "Springfield"},
		{"new  york city", "New York City"},
		{"ñandú road", "Ñandú Road"},
		{"san josé", "San José"},
		{"123 main st", "123 Main St"},
		{"\xffbad", "\xffbad"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, titleCase(tt.in))
		})
	}
}
