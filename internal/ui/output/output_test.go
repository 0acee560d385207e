package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/cppm/internal/ui/output"
)

func TestProfile(t *testing.T) {
	t.Run("NO_COLOR wins in every mode", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, termenv.Ascii, output.Profile(output.Interactive))
		assert.Equal(t, termenv.Ascii, output.Profile(output.Plain))
	})

	t.Run("plain mode is ANSI", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.Equal(t, termenv.ANSI, output.Profile(output.Plain))
	})

	t.Run("interactive mode detects a valid profile", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		p := output.Profile(output.Interactive)
		assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii)
	})
}

func TestNew(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := output.New(&buf, output.Plain)
	assert.Equal(t, termenv.Ascii, out.Profile)

	_, _ = out.WriteString(out.String("A.ixx").Foreground(termenv.ANSIRed).String())
	assert.Equal(t, "A.ixx", buf.String(), "Ascii profile drops colors")
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, output.New(nil, output.Interactive))
}
