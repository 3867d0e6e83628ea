package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glosario-lsc/glosario/internal/app"
	"github.com/glosario-lsc/glosario/internal/config"
	"github.com/glosario-lsc/glosario/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal EBML header followed by the "webm" doctype
var webmHeader = []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81, 0x01, 0x42, 0xF7, 0x81, 0x01, 0x42, 0xF2, 0x81, 0x04, 0x42, 0xF3, 0x81, 0x08, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm', 0x42, 0x87, 0x81, 0x04, 0x42, 0x85, 0x81, 0x02}

// useMemoryApp makes every command in the test share one in-memory app.
func useMemoryApp(t *testing.T) {
	t.Helper()
	cfg := &config.Config{
		Geo:   config.GeoConfig{CityRadiusKm: 50},
		MinIO: &storage.MinIOConfig{},
	}
	a, err := app.Build(context.Background(), cfg, nil)
	require.NoError(t, err)

	old := newApp
	newApp = func(context.Context) (*app.App, *config.Config, error) { return a, cfg, nil }
	t.Cleanup(func() { newApp = old })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.webm")
	require.NoError(t, os.WriteFile(path, webmHeader, 0o644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "glosario", cmd.Use)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "search", "add", "clear", "city"}, names)
}

func TestAddListSearch(t *testing.T) {
	useMemoryApp(t)
	clip := writeClip(t)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "library is empty")

	out, err = run(t, "", "add", "Hola", "--video", clip, "--note", "saludo", "--lat", "4.6097", "--lng", "-74.0817")
	require.NoError(t, err)
	assert.Contains(t, out, "recorded in Bogotá")
	assert.Contains(t, out, "created Hola")

	out, err = run(t, "", "add", "hola", "--video", clip, "--test")
	require.NoError(t, err)
	assert.Contains(t, out, "added a sign to Hola")

	out, err = run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hola (2 señas)")
	assert.Contains(t, out, "saludo")
	assert.Contains(t, out, "[Bogotá]")
	assert.Contains(t, out, "(prueba)")

	out, err = run(t, "", "search", "hola", "amigo")
	require.NoError(t, err)
	assert.Contains(t, out, "Hola (2 señas)")
	assert.Contains(t, out, "amigo (missing")
	assert.Contains(t, out, "1 of 2 words missing")

	out, err = run(t, "", "search", "nada")
	require.NoError(t, err)
	assert.Contains(t, out, "None of these words")
}

func TestAddRequiresVideo(t *testing.T) {
	useMemoryApp(t)

	_, err := run(t, "", "add", "hola")
	require.Error(t, err)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("not a video"), 0o644))
	_, err = run(t, "", "add", "hola", "--video", notes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read the video")

	_, err = run(t, "", "add", "hola", "--video", writeClip(t), "--lat", "4.6")
	require.Error(t, err)

	_, err = run(t, "", "add", "hola", "--video", writeClip(t), "--lat", "NaN", "--lng", "NaN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid coordinates")
	_, err = run(t, "", "add", "hola", "--video", writeClip(t), "--lat", "4.6", "--lng", "+Inf")
	require.Error(t, err)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "library is empty")
}

func TestClear(t *testing.T) {
	useMemoryApp(t)
	_, err := run(t, "", "add", "agua", "--video", writeClip(t))
	require.NoError(t, err)

	out, err := run(t, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	out, _ = run(t, "", "list")
	assert.Contains(t, out, "Agua")

	out, err = run(t, "sí\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "library cleared")

	_, err = run(t, "", "add", "agua", "--video", writeClip(t))
	require.NoError(t, err)
	out, err = run(t, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "library cleared")
	out, _ = run(t, "", "list")
	assert.Contains(t, out, "library is empty")
}

func TestCity(t *testing.T) {
	out, err := run(t, "", "city", "6.2442", "-75.5812")
	require.NoError(t, err)
	assert.Contains(t, out, "Medellín")

	out, err = run(t, "", "city", "0", "-140")
	require.NoError(t, err)
	assert.Contains(t, out, "no known city")

	_, err = run(t, "", "city", "north", "1")
	require.Error(t, err)
}
