// Package app wires the media engines to the HAL: it loads the movie
// containers, runs the playback loop and handles player controls.
package app

import (
	"errors"
	"fmt"
	"time"

	"ausar/archive"
	"ausar/gbm"
	"ausar/hal"
	"ausar/player"
)

// Config selects the media source and container generation.
type Config struct {
	// MediaPath is a ROM or GBFS image holding movie.gbm + movie.gbs.
	MediaPath string
	// MoviePath/MusicPath load bare containers instead of an image.
	MoviePath string
	MusicPath string
	// Version selects the frame-header XOR key: "gen1", "gen3", "v130".
	Version string
}

type system struct {
	h     hal.HAL
	audio *player.Audio
	video *player.Video
	osd   *osd

	stop chan struct{}
}

// New initializes the player and returns the per-tick step function.
func New(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err != nil {
		h.Logger().WriteLineString("app: " + err.Error())
		return func() error { return err }
	}
	return s.step
}

// Run starts the player and steps it until the step function returns an
// error (TinyGo entrypoint).
func Run(h hal.HAL, cfg Config) {
	step := New(h, cfg)
	for {
		if err := step(); err != nil {
			return
		}
		time.Sleep(time.Second / 60)
	}
}

func versionKey(version string) (uint16, error) {
	switch version {
	case "", "gen1":
		return gbm.VersionKeyGen1, nil
	case "gen3":
		return gbm.VersionKeyGen3, nil
	case "v130":
		return gbm.VersionKeyV130, nil
	}
	return 0, fmt.Errorf("unknown container version: %s", version)
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	key, err := versionKey(cfg.Version)
	if err != nil {
		return nil, err
	}

	movie, music, err := loadMedia(h.Storage(), cfg)
	if err != nil {
		return nil, err
	}

	audio := player.NewAudio(h.Audio())
	if err := audio.Init(music); err != nil {
		return nil, err
	}

	fb := h.Display().Framebuffer()
	if fb == nil {
		return nil, errors.New("no framebuffer")
	}
	video := player.NewVideo(fb, audio)
	if err := video.Init(movie, key); err != nil {
		return nil, err
	}

	info := audio.Info()
	h.Logger().WriteLineString(fmt.Sprintf("app: mode %d, %d Hz, %d ch, %d min",
		info.Mode, info.SampleRate, info.Channels, audio.TotalMinutes()))

	s := &system{
		h:     h,
		audio: audio,
		video: video,
		osd:   newOSD(fb),
		stop:  make(chan struct{}),
	}

	audio.Start()
	go video.Run(s.stop)
	go s.pumpVBlanks()

	return s, nil
}

// loadMedia resolves the two containers from either a packed image or
// bare files.
func loadMedia(store hal.Storage, cfg Config) (movie, music []byte, err error) {
	if cfg.MoviePath != "" && cfg.MusicPath != "" {
		movie, err = store.ReadFile(cfg.MoviePath)
		if err != nil {
			return nil, nil, err
		}
		music, err = store.ReadFile(cfg.MusicPath)
		if err != nil {
			return nil, nil, err
		}
		return movie, music, nil
	}

	image, err := store.ReadFile(cfg.MediaPath)
	if err != nil {
		return nil, nil, err
	}
	arc, err := archive.Find(image)
	if err != nil {
		return nil, nil, err
	}
	movieFile, err := arc.FindByExtension("gbm")
	if err != nil {
		return nil, nil, err
	}
	musicFile, err := arc.FindByExtension("gbs")
	if err != nil {
		return nil, nil, err
	}
	return movieFile.Data, musicFile.Data, nil
}

// pumpVBlanks forwards the 60 Hz tick to the frame-pacing handler.
func (s *system) pumpVBlanks() {
	ch := s.h.Time().VBlanks()
	if ch == nil {
		return
	}
	for {
		select {
		case <-s.stop:
			return
		case <-ch:
			s.video.OnVBlank()
		}
	}
}

// step runs once per host tick: player controls plus the status overlay.
func (s *system) step() error {
	s.pollInput()
	s.osd.draw(s.audio)
	return nil
}

func (s *system) pollInput() {
	kbd := s.h.Input().Keyboard()
	if kbd == nil {
		return
	}
	ch := kbd.Events()
	if ch == nil {
		return
	}
	for {
		select {
		case ev := <-ch:
			if !ev.Press {
				continue
			}
			switch ev.Code {
			case hal.KeySpace:
				if s.audio.IsPaused() {
					s.audio.Resume()
				} else {
					s.audio.Pause()
				}
			case hal.KeyEnter:
				s.video.Restart()
			case hal.KeyRight:
				s.video.SeekNextMinute()
			case hal.KeyLeft:
				s.video.SeekPreviousMinute()
			}
		default:
			return
		}
	}
}
