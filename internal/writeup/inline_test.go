package writeup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no markers here", "no markers here"},
		{"bold", "**x**", "<strong>x</strong>"},
		{"italic", "*x*", "<em>x</em>"},
		{"code", "`x`", "<code>x</code>"},
		{"pairs are non-greedy", "**a** b **c**", "<strong>a</strong> b <strong>c</strong>"},
		{"italic inside bold", "**a *b* c**", "<strong>a <em>b</em> c</strong>"},
		{"unpaired markers stay literal", "2 * 3 and a lone `", "2 * 3 and a lone `"},
		{"raw markup passes through", "<b>hi</b>", "<b>hi</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Inline(tt.in))
		})
	}
}
