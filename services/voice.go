package services

import (
	"fmt"
	"os"
	"path/filepath"

	htgotts "github.com/hegedustibor/htgo-tts"
	"github.com/hegedustibor/htgo-tts/voices"
)

// AudioError marks a failed voice synthesis. Voice output is best-effort:
// callers keep going and the summary stays usable without it.
type AudioError struct {
	Err error
}

func (e *AudioError) Error() string {
	return fmt.Sprintf("Voice generation failed: %v", e.Err)
}

func (e *AudioError) Unwrap() error { return e.Err }

// GenerateVoice synthesizes an English speech clip of the summary and
// returns the mp3 bytes.
func GenerateVoice(summary string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "legallite-audio-")
	if err != nil {
		return nil, &AudioError{Err: err}
	}
	defer os.RemoveAll(dir)

	speech := htgotts.Speech{Folder: dir, Language: voices.English}
	path, err := speech.CreateSpeechFile(summary, "summary_audio")
	if err != nil {
		return nil, &AudioError{Err: err}
	}

	audio, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &AudioError{Err: err}
	}
	return audio, nil
}
