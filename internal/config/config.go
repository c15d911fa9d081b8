package config

import "time"

const (
	WindowWidth  = 960
	WindowHeight = 540
	WindowTitle  = "Gentle check-in (5s)"

	// Visual loop
	SceneLoop      = 5.0 // seconds
	ProbeFocusEnd  = 2.0
	HandFocusEnd   = 4.0
	ProbeBlurScale = 6.0 // px per unit of defocus, before device scale
	HandBlurScale  = 7.0
	WipeHalfWidth  = 80.0
	LevelRingSize  = 8192

	// Audio
	OutputSampleRate = 44100
	NoiseSampleRate  = 22050
	OutputBuffer     = 50 * time.Millisecond
	WhisperLoop      = 3.2 // seconds, kept under the scene loop
	NoisePadding     = 0.1
	PlayLead         = 0.05
	StopTail         = 0.02
	TapLead          = 0.01

	// Loop driver cadence
	CyclePeriod = 5000 * time.Millisecond
)

// Static caption text shown or announced alongside the loop.
const (
	Caption      = "Gentle check-in (5s)"
	CaptionLong  = "Gentle check-in, five seconds loop. Whisper: Relax your jaw for me."
	WhisperWords = "Relax your jaw for me."
)
