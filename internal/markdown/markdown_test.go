package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/markdown"
)

func TestRender_EmphasisAndLists(t *testing.T) {
	t.Parallel()

	out, err := markdown.New().Render("Intro\n\n* **SQL:** queries\n* *Excel*\n")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<strong>SQL:</strong>")
	assert.Contains(t, html, "<em>Excel</em>")
	assert.Contains(t, html, "<ul>")
	assert.Equal(t, 2, strings.Count(html, "<li>"))
}

func TestRender_EscapesRawHTML(t *testing.T) {
	t.Parallel()

	out, err := markdown.New().Render(`<script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestRender_HardWraps(t *testing.T) {
	t.Parallel()

	out, err := markdown.New().Render("line one\nline two")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<br")
}
