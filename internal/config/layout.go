package config

// Desktop layout, in window pixels.
const (
	// Buttons
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50
	ButtonGap    = 12

	// Goblet: the liquid offset from the gauge mapping is measured from GobletTop.
	GobletX     = 452
	GobletTop   = 40
	GobletWidth = 120
	GobletDepth = 160

	// Parchment with the final value and verdict.
	NoteX      = 700
	NoteY      = 60
	NoteWidth  = 280
	NoteHeight = 110

	// Ring size of the completion-sound level meter, in stereo frames.
	LevelRingSize = 4096
)
