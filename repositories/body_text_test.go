package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBodyText(t *testing.T) {
	body := `<p>Hello <b>world</b></p><script>var x = 1;</script>` +
		`<style>p { color: red; }</style>` +
		`<a href="https://steemit.com/@alice">alice</a><img src="https://img.example/1.png"/>` +
		"\n## plain markdown"

	got := ExtractBodyText(body)

	assert.Equal(t, "Hello world alice ## plain markdown", got.Text)
	assert.Equal(t, []string{"https://steemit.com/@alice"}, got.Links)
	assert.Equal(t, []string{"https://img.example/1.png"}, got.Images)
}

func TestExtractBodyText_Empty(t *testing.T) {
	got := ExtractBodyText("")

	assert.Empty(t, got.Text)
	assert.Nil(t, got.Links)
	assert.Nil(t, got.Images)
}
