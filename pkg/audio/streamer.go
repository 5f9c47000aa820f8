package audio

import (
	"fmt"

	"github.com/gopxl/beep/v2"

	"recallgo/pkg/model"
)

// clipStreamer adapts a decoded mono clip to a seekable beep streamer.
// The mono signal is duplicated onto both channels.
type clipStreamer struct {
	samples []float64
	pos     int
}

var _ beep.StreamSeeker = (*clipStreamer)(nil)

func newClipStreamer(clip *model.AudioClip) *clipStreamer {
	return &clipStreamer{samples: clip.Samples}
}

func (s *clipStreamer) Stream(out [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	for i := range out {
		if s.pos >= len(s.samples) {
			break
		}
		v := s.samples[s.pos]
		out[i][0] = v
		out[i][1] = v
		s.pos++
		n++
	}
	return n, true
}

func (s *clipStreamer) Err() error { return nil }

func (s *clipStreamer) Len() int { return len(s.samples) }

func (s *clipStreamer) Position() int { return s.pos }

func (s *clipStreamer) Seek(p int) error {
	if p < 0 || p > len(s.samples) {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, len(s.samples))
	}
	s.pos = p
	return nil
}
