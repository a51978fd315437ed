package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Renders the real template file so a renamed variable or a deleted file
// fails here instead of on the first live send.
func TestSubmissionReceivedTemplateRenders(t *testing.T) {
	path := filepath.Join("..", "..", "..", "templates", "emails",
		fmt.Sprintf("%s.html", TemplateSubmissionReceived))

	tmpl, err := template.ParseFiles(path)
	require.NoError(t, err)

	var body bytes.Buffer
	require.NoError(t, tmpl.Execute(&body, map[string]string{
		"ClientName":   "Ada Lovelace",
		"BusinessName": "Analytical Engines Ltd",
	}))

	html := body.String()
	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "Analytical Engines Ltd")
}
