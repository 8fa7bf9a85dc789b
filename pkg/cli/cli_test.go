package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-feedback/pkg/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand_LocalTemplate(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "template.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1200, 850))))
	require.NoError(t, os.WriteFile(tplPath, buf.Bytes(), 0o644))

	outPath := filepath.Join(dir, "asha.png")
	out, err := execute(t, "render",
		"--name", "Asha",
		"--workshop", "React JS for Beginners",
		"--provider", "ABC College",
		"--date", "2024-05-01",
		"--template", tplPath,
		"--out", outPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "(1200x850)")

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 850, cfg.Height)
}

func TestRenderCommand_MissingField(t *testing.T) {
	_, err := execute(t, "render", "--name", "Asha", "--template", "unused.png", "--out", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	out, err := execute(t, "token", "--user", "ops")
	require.NoError(t, err)

	claims, err := auth.ValidateToken("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := execute(t, "token")
	assert.Error(t, err)
}
