package audio

import (
	"math"
	"testing"
)

type dummyStreamer struct {
	samples [][2]float64
	pos     int
}

func (s *dummyStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n = copy(samples, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *dummyStreamer) Err() error { return nil }

func TestToneFilter_Stream(t *testing.T) {
	input := make([][2]float64, 100)
	for i := range input {
		input[i] = [2]float64{1.0, 1.0}
	}

	ds := &dummyStreamer{samples: input}
	filter := NewToneFilter(ds, 48000, 250, 5500)

	output := make([][2]float64, 100)
	n, ok := filter.Stream(output)

	if n != 100 {
		t.Errorf("Expected 100 samples, got %d", n)
	}
	if !ok {
		t.Error("Expected ok = true")
	}

	// A bandpass must kill the DC component: the tail of a constant input
	// should decay towards zero.
	tail := output[99][0]
	if math.Abs(tail) > 0.9 {
		t.Errorf("DC not attenuated, tail sample %f", tail)
	}
}

func TestLowPass_PassesDC(t *testing.T) {
	input := make([][2]float64, 500)
	for i := range input {
		input[i] = [2]float64{1.0, 1.0}
	}

	ds := &dummyStreamer{samples: input}
	filter := NewLowPass(ds, 48000, 4000, 0.707)

	output := make([][2]float64, 500)
	filter.Stream(output)

	// A lowpass should settle near unity for a constant signal.
	if math.Abs(output[499][0]-1.0) > 0.1 {
		t.Errorf("lowpass distorted DC, tail sample %f", output[499][0])
	}
}

func TestToneByCategory(t *testing.T) {
	if _, ok := toneByCategory["noir"]; !ok {
		t.Error("noir should have a tone band")
	}
	if _, ok := toneByCategory["warm"]; ok {
		t.Error("warm should play unfiltered")
	}
}
