package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("u1", "a@b.c", "admin", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("u1", "a@b.c", "customer", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestGenerateCode(t *testing.T) {
	a, err := GenerateCode(16)
	require.NoError(t, err)
	b, err := GenerateCode(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestRenderEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.html")
	tmpl := `<p>{{.Name}}</p>{{range .Items}}<li>{{.Name}} x{{.Quantity}}</li>{{end}}<b>{{.Total}}</b>`
	require.NoError(t, os.WriteFile(path, []byte(tmpl), 0o600))

	body, err := RenderEmail(path, EmailData{
		Name:  "<Sam>",
		Items: []EmailItem{{Name: "IPTV 12 mois", Quantity: 2}},
		Total: "59.98",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "&lt;Sam&gt;")
	assert.Contains(t, body, "IPTV 12 mois x2")
	assert.Contains(t, body, "59.98")
}

func TestRenderEmailMissingTemplate(t *testing.T) {
	_, err := RenderEmail(filepath.Join(t.TempDir(), "missing.html"), EmailData{})
	assert.Error(t, err)
}
