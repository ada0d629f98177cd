package notify

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"sync"
)

const (
	BackendAuto   = "auto"
	BackendEspeak = "espeak"
	BackendSay    = "say"
	BackendNone   = "none"
)

// BellSound rings the terminal bell.
type BellSound struct {
	W io.Writer
}

func (b BellSound) Play() error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// ExecSound plays File through the platform audio player and falls back to
// Fallback when there is no file or no player.
type ExecSound struct {
	File     string
	Fallback Sound
}

func (s ExecSound) Play() error {
	player := soundPlayer()
	if s.File == "" || player == "" {
		if s.Fallback == nil {
			return nil
		}
		return s.Fallback.Play()
	}
	return startDetached(exec.Command(player, s.File))
}

func soundPlayer() string {
	switch runtime.GOOS {
	case "linux":
		return "paplay"
	case "darwin":
		return "afplay"
	default:
		return ""
	}
}

// ExecSpeech drives espeak or macOS say. The voice list is read once and cached.
type ExecSpeech struct {
	Program string

	once   sync.Once
	voices []string
	err    error
}

func (s *ExecSpeech) Say(text, voice string) error {
	args := make([]string, 0, 3)
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, text)
	return startDetached(exec.Command(s.Program, args...))
}

func (s *ExecSpeech) Voices() ([]string, error) {
	s.once.Do(func() {
		var out []byte
		switch s.Program {
		case BackendSay:
			out, s.err = exec.Command(s.Program, "-v", "?").Output()
			if s.err == nil {
				s.voices = ParseSayVoices(out)
			}
		default:
			out, s.err = exec.Command(s.Program, "--voices").Output()
			if s.err == nil {
				s.voices = ParseEspeakVoices(out)
			}
		}
		if s.err != nil {
			s.err = fmt.Errorf("list voices with %s: %w", s.Program, s.err)
		}
	})
	return s.voices, s.err
}

// NewSpeech resolves a backend name to a speech implementation. auto picks
// say on macOS and espeak elsewhere when it is installed.
func NewSpeech(backend string) (Speech, VoiceCatalog) {
	switch backend {
	case BackendNone:
		return NoopSpeech{}, NoopSpeech{}
	case BackendEspeak, BackendSay:
		s := &ExecSpeech{Program: backend}
		return s, s
	}
	program := BackendEspeak
	if runtime.GOOS == "darwin" {
		program = BackendSay
	}
	if _, err := exec.LookPath(program); err != nil {
		return NoopSpeech{}, NoopSpeech{}
	}
	s := &ExecSpeech{Program: program}
	return s, s
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// ParseEspeakVoices reads the VoiceName column of `espeak --voices`.
func ParseEspeakVoices(out []byte) []string {
	var voices []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, fields[3])
	}
	return voices
}

var sayColumns = regexp.MustCompile(`\s{2,}`)

// ParseSayVoices reads the voice names of `say -v ?`. Names may contain
// single spaces; columns are separated by runs of spaces.
func ParseSayVoices(out []byte) []string {
	var voices []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name := sayColumns.Split(line, 2)[0]
		if name != "" {
			voices = append(voices, name)
		}
	}
	return voices
}
