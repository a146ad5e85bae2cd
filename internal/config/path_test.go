package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SHOPASSIST_TEST_DIR", "/tmp/shop")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/data/db.sqlite", want: filepath.Join(home, "data/db.sqlite")},
		{in: "$SHOPASSIST_TEST_DIR/db.sqlite", want: "/tmp/shop/db.sqlite"},
		{in: "/abs/path", want: "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath_Default(t *testing.T) {
	t.Setenv("HOME", "/home/advisor")
	assert.Equal(t, "/home/advisor/.local/share/shopassist/shopassist.db", DatabasePath(""))
	assert.Equal(t, "/srv/db.sqlite", DatabasePath("/srv/db.sqlite"))
}
