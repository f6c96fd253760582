package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/patchbay/test"
	"github.com/dudk/patchbay/wav"
)

func TestInit(t *testing.T) {
	//check if commands are registered
	assert.Equal(t, len(commands()), 2)
}

func run(args ...string) (int, string) {
	var out bytes.Buffer
	c := config{
		args: append([]string{"patchbay"}, args...),
		out:  &out,
	}
	return c.run(), out.String()
}

func TestUsage(t *testing.T) {
	code, out := run()
	assert.Equal(t, errorExitCode, code)
	assert.Contains(t, out, "render")

	code, out = run("mix")
	assert.Equal(t, errorExitCode, code)
	assert.Contains(t, out, "Unknown command: mix")

	code, _ = run("list", "-unknown")
	assert.Equal(t, errorExitCode, code)
}

func TestList(t *testing.T) {
	code, out := run("list", "-ports")
	assert.Equal(t, successExitCode, code)
	for _, s := range []string{"gain", "mix", "delay", "invert", "constant", "mod\tcontrol input"} {
		assert.Contains(t, out, s)
	}
}

const invertPatch = `
name: cli
block_size: 16
components:
  - type: invert
    name: flip
routes:
  - from: input
    to: flip.in
  - from: flip.out
    to: output
`

func TestRender(t *testing.T) {
	dir := t.TempDir()
	patchPath := filepath.Join(dir, "patch.yaml")
	require.NoError(t, os.WriteFile(patchPath, []byte(invertPatch), 0o644))
	in := test.WriteWav(t, "in.wav", 22050, 1, test.Ramp(100, 1, 10))
	out := filepath.Join(dir, "out.wav")

	code, output := run("render", "-patch", patchPath, "-in", in, "-out", out, "-block", "32", "-metric")
	require.Equal(t, successExitCode, code, output)
	assert.Contains(t, output, "Blocks: 4")

	s, err := wav.Open(out)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 22050, s.SampleRate)
	block := make([]float32, 200)
	n, err := s.Read(block)
	require.NoError(t, err)
	require.Equal(t, 100, n)
	for i := 0; i < n; i++ {
		assert.InDelta(t, -float32(i*10)/(1<<15), block[i], 1e-6)
	}
}

func TestRenderValidate(t *testing.T) {
	code, out := run("render", "-in", "in.wav")
	assert.Equal(t, errorExitCode, code)
	assert.Contains(t, out, "Missing -patch required flag")
	assert.Contains(t, out, "Missing -out required flag")
	assert.NotContains(t, out, "Missing -in required flag")
}
