package uploads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"avatar.png", "avatar.png"},
		{"My cool pic.jpg", "My_cool_pic.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\bob\me.gif`, "me.gif"},
		{".bashrc", "bashrc"},
		{"___x.png", "x.png"},
		{"фото.png", "png"},
		{"", ""},
		{"/", ""},
		{"..", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestNewKey(t *testing.T) {
	a := NewKey("me.png")
	b := NewKey("me.png")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_me.png"))
	assert.True(t, validKey(a))

	assert.True(t, strings.HasSuffix(NewKey("../"), "_upload"))
}
