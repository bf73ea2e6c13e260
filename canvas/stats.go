package canvas

import "time"

// Stats holds frame timings of a Canvas.
type Stats struct {
	FrameCount      uint64
	AverageDuration time.Duration
	MaxDuration     time.Duration

	// Delta time to previous frame
	Delta time.Duration

	// number of frames the renderer failed to draw
	Errors uint64

	lastTime time.Time
}

func (s *Stats) update(d time.Duration) {
	const window = 64

	s.Delta = d
	s.MaxDuration = max(s.MaxDuration, d)

	if s.FrameCount < window/2 {
		s.AverageDuration = d
	} else {
		s.AverageDuration = ((window-1)*s.AverageDuration + d) / window
	}
}

func (s *Stats) FPS() float64 {
	if s.AverageDuration <= 0 {
		return 0
	}

	return 1.0 / s.AverageDuration.Seconds()
}

// tick records a frame at now. It returns true every 600 frames.
func (s *Stats) tick(now time.Time) bool {
	s.Delta = 0

	if s.FrameCount > 0 {
		s.update(now.Sub(s.lastTime))
	}

	s.lastTime = now
	s.FrameCount += 1

	return s.FrameCount%600 == 0
}
