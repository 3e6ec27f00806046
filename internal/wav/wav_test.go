package wav

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := Tone(440, 100*time.Millisecond, 0.5, 24000)

	data := Encode(samples, 24000)
	audio, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if audio.SampleRate != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", audio.SampleRate)
	}
	if len(audio.Samples) != len(samples) {
		t.Errorf("Expected %d samples, got %d", len(samples), len(audio.Samples))
	}
	for i := range samples {
		if math.Abs(audio.Samples[i]-samples[i]) > 0.001 {
			t.Fatalf("Sample %d: expected %f, got %f", i, samples[i], audio.Samples[i])
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "too short", data: []byte("RIFF")},
		{name: "wrong magic", data: make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); err == nil {
				t.Error("Expected error for invalid payload")
			}
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := Tone(220, 50*time.Millisecond, 0.3, 22050)

	if err := WriteFile(path, samples, 22050); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	audio, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if audio.SampleRate != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", audio.SampleRate)
	}
	if len(audio.Samples) != len(samples) {
		t.Errorf("Expected %d samples, got %d", len(samples), len(audio.Samples))
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.wav")); !os.IsNotExist(err) {
		t.Errorf("Expected os.IsNotExist error, got %v", err)
	}
}

func TestSilence(t *testing.T) {
	samples := Silence(500*time.Millisecond, 24000)
	if len(samples) != 12000 {
		t.Errorf("Expected 12000 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("Sample %d is not silent: %f", i, s)
		}
	}
}

func TestToneDuration(t *testing.T) {
	samples := Tone(440, time.Second, 0.5, 24000)
	if len(samples) != 24000 {
		t.Errorf("Expected 24000 samples, got %d", len(samples))
	}

	audio := &Audio{Samples: samples, SampleRate: 24000}
	if d := audio.Duration(); d != time.Second {
		t.Errorf("Expected 1s duration, got %v", d)
	}
}

func TestNormalize(t *testing.T) {
	samples := []float64{0.1, -0.3, 0.2}
	Normalize(samples, 0.9)

	var max float64
	for _, s := range samples {
		if a := math.Abs(s); a > max {
			max = a
		}
	}
	if math.Abs(max-0.9) > 1e-9 {
		t.Errorf("Expected peak 0.9, got %f", max)
	}
}

func TestNormalizeSilence(t *testing.T) {
	samples := make([]float64, 100)
	Normalize(samples, 0.9)
	for _, s := range samples {
		if s != 0 {
			t.Fatal("Normalizing silence must not change samples")
		}
	}
}

func TestDitherDeterministic(t *testing.T) {
	a := make([]float64, 100)
	b := make([]float64, 100)
	Dither(a, 0.0001, 42)
	Dither(b, 0.0001, 42)

	for i := range a {
		if a[i] != b[i] {
			t.Fatal("Dither with the same seed must be reproducible")
		}
		if math.Abs(a[i]) > 0.0001 {
			t.Fatalf("Dither sample %d exceeds amplitude: %f", i, a[i])
		}
	}
}

func TestDecodeStereoDownmix(t *testing.T) {
	// Hand-build a stereo payload: two frames, L=0.5/R=-0.5 then L=R=0.25.
	pcm := []int16{16384, -16384, 8192, 8192}
	data := encodeStereo(t, pcm, 24000)
	audio, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(audio.Samples) != 2 {
		t.Fatalf("Expected 2 mono frames, got %d", len(audio.Samples))
	}
	if math.Abs(audio.Samples[0]) > 0.001 {
		t.Errorf("Expected first frame ~0, got %f", audio.Samples[0])
	}
	if math.Abs(audio.Samples[1]-0.25) > 0.001 {
		t.Errorf("Expected second frame ~0.25, got %f", audio.Samples[1])
	}
}

// encodeStereo builds a 2-channel 16-bit WAV payload for decode tests.
func encodeStereo(t *testing.T, pcm []int16, sampleRate int) []byte {
	t.Helper()

	var buf bytes.Buffer
	dataSize := uint32(len(pcm) * 2)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*4))
	binary.Write(&buf, binary.LittleEndian, uint16(4))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, pcm)

	return buf.Bytes()
}

func TestResample(t *testing.T) {
	samples := Tone(440, 500*time.Millisecond, 0.5, 22050)

	out := Resample(samples, 22050, 24000)

	expected := int(float64(len(samples)) * 24000.0 / 22050.0)
	if diff := len(out) - expected; diff < -2 || diff > 2 {
		t.Errorf("Expected ~%d samples, got %d", expected, len(out))
	}
}

func TestResampleSameRate(t *testing.T) {
	samples := []float64{0.1, 0.2, 0.3}
	out := Resample(samples, 24000, 24000)
	if len(out) != 3 {
		t.Errorf("Same-rate resample must be a no-op, got %d samples", len(out))
	}
}
