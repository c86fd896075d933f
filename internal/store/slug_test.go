package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vase Bleu", "vase-bleu"},
		{"Lampe  de   chevet", "lampe-de-chevet"},
		{"Café & Thé!", "café-thé"},
		{"  Miroir doré  ", "miroir-doré"},
		{"Coussin -- rayé", "coussin-rayé"},
		{"100% Coton", "100-coton"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "entrée %q", tt.in)
	}
}
