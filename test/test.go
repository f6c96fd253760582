// Package test contains helper functions useful for testing patchbay
// packages.
package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Out returns path of the output file in the temporary directory of the
// test.
func Out(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// Ramp returns interleaved 16 bit samples. Every channel gets the same
// ramp i*step of frames length.
func Ramp(frames, channels, step int) []int {
	data := make([]int, 0, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			data = append(data, i*step)
		}
	}
	return data
}

// WriteWav writes interleaved 16 bit samples to the wav file in the
// temporary directory of the test and returns its path.
func WriteWav(t testing.TB, name string, sampleRate, channels int, data []int) string {
	t.Helper()
	path := Out(t, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %v: %v", path, err)
	}
	e := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := e.Write(buf); err != nil {
		t.Fatalf("write %v: %v", path, err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("close encoder %v: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %v: %v", path, err)
	}
	return path
}
