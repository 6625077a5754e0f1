package template

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DottedNames(t *testing.T) {
	r := NewMustacheRenderer()
	data := map[string]interface{}{
		"event": map[string]interface{}{
			"type": "feature-created",
			"data": map[string]interface{}{"name": "some-toggle"},
		},
	}

	out, err := r.Render("{{event.type}} on toggle {{event.data.name}}", data)

	require.NoError(t, err)
	assert.Equal(t, "feature-created on toggle some-toggle", out)
}

func TestRender_EscapesUnlessTriple(t *testing.T) {
	r := NewMustacheRenderer()
	data := map[string]interface{}{"v": `<a href="x">`}

	escaped, err := r.Render("{{v}}", data)
	require.NoError(t, err)
	assert.NotContains(t, escaped, "<a")

	raw, err := r.Render("{{{v}}}", data)
	require.NoError(t, err)
	assert.Equal(t, `<a href="x">`, raw)
}

func TestRender_ReusesParsedTemplate(t *testing.T) {
	r := NewMustacheRenderer()

	first, err := r.Render("hola {{name}}", map[string]interface{}{"name": "a"})
	require.NoError(t, err)
	second, err := r.Render("hola {{name}}", map[string]interface{}{"name": "b"})
	require.NoError(t, err)

	assert.Equal(t, "hola a", first)
	assert.Equal(t, "hola b", second)
	assert.Equal(t, 1, r.Cached())
}

func TestRender_ParsedTemplatesAreBounded(t *testing.T) {
	r := NewMustacheRendererWithSize(2)

	for i := 0; i < 10; i++ {
		out, err := r.Render(fmt.Sprintf("v%d {{name}}", i), map[string]interface{}{"name": "x"})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("v%d x", i), out)
	}
	assert.Equal(t, 2, r.Cached())

	// Una plantilla desalojada se vuelve a parsear sin problema
	out, err := r.Render("v0 {{name}}", map[string]interface{}{"name": "y"})
	require.NoError(t, err)
	assert.Equal(t, "v0 y", out)
	assert.Equal(t, 2, r.Cached())
}

func TestRender_InvalidTemplateIsNotCached(t *testing.T) {
	r := NewMustacheRenderer()

	_, err := r.Render("{{#section}}sin cerrar", nil)

	assert.Error(t, err)
	assert.Equal(t, 0, r.Cached())
}

func TestRender_InvalidTemplate(t *testing.T) {
	_, err := NewMustacheRenderer().Render("{{#section}}sin cerrar", nil)

	assert.Error(t, err)
}
