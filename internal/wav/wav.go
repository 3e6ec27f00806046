// Package wav provides minimal WAV encoding and decoding plus the
// sample-level helpers the assembler needs: silence, test tones,
// dithering, and peak normalization. Only 16-bit little-endian PCM is
// supported, which is what every engine in this project produces.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"
)

// Format constants shared by every synthesis path.
const (
	// BitDepth is the bit depth per sample (16-bit)
	BitDepth = 16
	// BytesPerSample is the number of bytes per sample
	BytesPerSample = BitDepth / 8
	// Channels is the number of audio channels (1 = mono)
	Channels = 1
)

var (
	// ErrNotWAV is returned when the payload lacks a RIFF/WAVE header.
	ErrNotWAV = errors.New("payload is not a WAV file")
	// ErrUnsupportedFormat is returned for anything but 16-bit PCM.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

// Audio holds decoded mono PCM samples in the range [-1, 1].
type Audio struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the playback duration of the audio.
func (a *Audio) Duration() time.Duration {
	if a.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(a.Samples)) / float64(a.SampleRate) * float64(time.Second))
}

// Encode serializes mono float64 samples as a 16-bit PCM WAV payload.
func Encode(samples []float64, sampleRate int) []byte {
	pcm := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		pcm[i] = int16(s * 32767.0)
	}
	return EncodePCM16(pcm, sampleRate)
}

// EncodePCM16 wraps raw 16-bit mono samples in a RIFF/WAVE container.
func EncodePCM16(pcm []int16, sampleRate int) []byte {
	dataSize := uint32(len(pcm) * BytesPerSample)
	buf := bytes.NewBuffer(make([]byte, 0, 44+int(dataSize)))

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(Channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*Channels*BytesPerSample))
	binary.Write(buf, binary.LittleEndian, uint16(Channels*BytesPerSample))
	binary.Write(buf, binary.LittleEndian, uint16(BitDepth))

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	binary.Write(buf, binary.LittleEndian, pcm)

	return buf.Bytes()
}

// Decode parses a 16-bit PCM WAV payload into normalized samples.
// Stereo input is downmixed to mono by averaging channel pairs.
func Decode(data []byte) (*Audio, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		sampleRate int
		channels   int
		bitDepth   int
		pcmData    []byte
	)

	// Walk the chunk list; producers often insert LIST/INFO chunks
	// between fmt and data.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, ErrUnsupportedFormat
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, audioFormat)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcmData = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
		if pcmData != nil && sampleRate != 0 {
			break
		}
	}

	if sampleRate == 0 || pcmData == nil {
		return nil, ErrNotWAV
	}
	if bitDepth != 16 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	frames := len(pcmData) / (BytesPerSample * channels)
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var acc float64
		for c := 0; c < channels; c++ {
			idx := (i*channels + c) * BytesPerSample
			acc += float64(int16(binary.LittleEndian.Uint16(pcmData[idx:]))) / 32768.0
		}
		samples[i] = acc / float64(channels)
	}

	return &Audio{Samples: samples, SampleRate: sampleRate}, nil
}

// ReadFile decodes a WAV file from disk.
func ReadFile(path string) (*Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// WriteFile encodes samples and writes them to path.
func WriteFile(path string, samples []float64, sampleRate int) error {
	return os.WriteFile(path, Encode(samples, sampleRate), 0o644)
}

// Silence returns d worth of silent samples at the given rate.
func Silence(d time.Duration, sampleRate int) []float64 {
	n := int(d.Seconds() * float64(sampleRate))
	if n < 0 {
		n = 0
	}
	return make([]float64, n)
}

// Tone synthesizes a sine tone of the given frequency and duration.
// A short linear fade at both ends avoids clicks on concatenation.
func Tone(freq float64, d time.Duration, amplitude float64, sampleRate int) []float64 {
	n := int(d.Seconds() * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	samples := make([]float64, n)
	fade := sampleRate / 100 // 10ms
	if fade > n/2 {
		fade = n / 2
	}
	for i := range samples {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		if i < fade {
			v *= float64(i) / float64(fade)
		} else if i >= n-fade {
			v *= float64(n-1-i) / float64(fade)
		}
		samples[i] = v
	}
	return samples
}

// Dither adds low-amplitude noise in place. The seed keeps output
// reproducible across runs so tests can assert on durations.
func Dither(samples []float64, amplitude float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range samples {
		samples[i] += (rng.Float64()*2 - 1) * amplitude
	}
}

// Resample converts samples between rates using linear
// interpolation. Good enough for speech segments; callers needing
// fidelity should synthesize at the target rate instead.
func Resample(samples []float64, from, to int) []float64 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(from) / float64(to)
	n := int(float64(len(samples)) / ratio)
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}

// Normalize scales samples in place so the maximum absolute amplitude
// equals peak. Silent input is left untouched.
func Normalize(samples []float64, peak float64) {
	var max float64
	for _, s := range samples {
		if a := math.Abs(s); a > max {
			max = a
		}
	}
	if max == 0 {
		return
	}
	scale := peak / max
	for i := range samples {
		samples[i] *= scale
	}
}
