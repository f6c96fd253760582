// Package wav reads and writes block signal as wav files.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type (
	// Source reads wav file block by block. Channels are mixed down to
	// mono.
	Source struct {
		file     *os.File
		decoder  *wav.Decoder
		buf      *audio.IntBuffer
		channels int
		scale    float32
		// SampleRate of the file.
		SampleRate int
	}

	// Sink saves mono signal to wav file.
	Sink struct {
		file    *os.File
		encoder *wav.Encoder
		buf     *audio.IntBuffer
		scale   float64
	}
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")

func validBitDepth(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

func scaleOf(bitDepth int) float32 {
	return float32(int64(1) << (bitDepth - 1))
}

// Open opens wav file for reading.
func Open(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if err := file.Close(); err != nil {
			return nil, fmt.Errorf("wav is not valid, failed to close the file %v: %w", path, err)
		}
		return nil, fmt.Errorf("wav is not valid: %v", path)
	}
	bitDepth := int(decoder.BitDepth)
	if !validBitDepth(bitDepth) {
		file.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	format := decoder.Format()
	return &Source{
		file:       file,
		decoder:    decoder,
		channels:   format.NumChannels,
		scale:      scaleOf(bitDepth),
		SampleRate: format.SampleRate,
		buf: &audio.IntBuffer{
			Format:         format,
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Read fills the block with mono signal. It returns io.EOF when file is
// over.
func (s *Source) Read(block []float32) (int, error) {
	if size := len(block) * s.channels; cap(s.buf.Data) < size {
		s.buf.Data = make([]int, size)
	} else {
		s.buf.Data = s.buf.Data[:size]
	}
	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, err
	}
	frames := n / s.channels
	if frames == 0 {
		return 0, io.EOF
	}
	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < s.channels; c++ {
			sum += s.buf.Data[i*s.channels+c]
		}
		block[i] = float32(sum) / float32(s.channels) / s.scale
	}
	return frames, nil
}

// Close closes the file.
func (s *Source) Close() error {
	return s.file.Close()
}

// Create creates mono wav file for writing.
func Create(path string, sampleRate, bitDepth int) (*Sink, error) {
	if !validBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Sink{
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, bitDepth, 1, 1),
		scale:   float64(scaleOf(bitDepth)),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Write encodes the block. Samples are clipped to [-1, 1].
func (s *Sink) Write(block []float32) error {
	if cap(s.buf.Data) < len(block) {
		s.buf.Data = make([]int, len(block))
	} else {
		s.buf.Data = s.buf.Data[:len(block)]
	}
	limit := s.scale - 1
	for i, sample := range block {
		v := float64(sample) * s.scale
		switch {
		case v > limit:
			v = limit
		case v < -s.scale:
			v = -s.scale
		}
		s.buf.Data[i] = int(v)
	}
	return s.encoder.Write(s.buf)
}

// Close flushes encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.encoder.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
