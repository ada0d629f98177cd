package notify

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/timefmt"
)

type EventKind string

const (
	EventTaskStart    EventKind = "taskStart"
	EventTaskComplete EventKind = "taskComplete"
)

var Affirmations = []string{
	"Great job!",
	"Well done!",
	"You did it!",
	"Keep it up!",
	"Nice work!",
}

type Sound interface {
	Play() error
}

// Speech speaks text with the named voice; an empty voice means the
// backend default.
type Speech interface {
	Say(text, voice string) error
}

type VoiceCatalog interface {
	Voices() ([]string, error)
}

type NoopSound struct{}

func (NoopSound) Play() error { return nil }

type NoopSpeech struct{}

func (NoopSpeech) Say(string, string) error { return nil }

func (NoopSpeech) Voices() ([]string, error) { return nil, nil }

type Option func(*Dispatcher)

// WithRandom replaces the source used to pick affirmations. intn must return
// a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(d *Dispatcher) {
		if intn != nil {
			d.intn = intn
		}
	}
}

// Dispatcher decides whether and what to announce for a task event.
type Dispatcher struct {
	sound  Sound
	speech Speech
	voices VoiceCatalog
	intn   func(n int) int
}

func NewDispatcher(sound Sound, speech Speech, voices VoiceCatalog, opts ...Option) *Dispatcher {
	if sound == nil {
		sound = NoopSound{}
	}
	if speech == nil {
		speech = NoopSpeech{}
	}
	if voices == nil {
		voices = NoopSpeech{}
	}
	d := &Dispatcher{sound: sound, speech: speech, voices: voices, intn: rand.Intn}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// StartText is the spoken announcement for a starting task, if the mode has one.
func StartText(task model.Task, mode model.NotificationMode) (string, bool) {
	switch mode {
	case model.ModeNameAndDurationOnStart:
		return fmt.Sprintf("Starting: %s, which is %s.", task.Name, timefmt.Format(task.DurationSeconds)), true
	case model.ModeNameOnStart:
		return fmt.Sprintf("Starting task: %s.", task.Name), true
	case model.ModeDurationOnStart:
		return fmt.Sprintf("This task will take %s.", timefmt.Format(task.DurationSeconds)), true
	default:
		return "", false
	}
}

func (d *Dispatcher) completionText(cfg model.ListConfiguration) (string, bool) {
	switch cfg.NotificationMode {
	case model.ModeCustomMessageOnComplete:
		return cfg.CustomMessage, true
	case model.ModeRandomAffirmationOnComplete:
		return Affirmations[d.intn(len(Affirmations))], true
	default:
		return "", false
	}
}

// Dispatch plays and speaks whatever cfg asks for on kind. Failures of the
// sound and speech backends are joined; neither prevents the other.
func (d *Dispatcher) Dispatch(kind EventKind, task model.Task, cfg model.ListConfiguration) error {
	var errs []error
	switch kind {
	case EventTaskStart:
		if !cfg.TTSEnabled {
			return nil
		}
		if text, ok := StartText(task, cfg.NotificationMode); ok {
			errs = append(errs, d.say(text, cfg.SelectedVoice))
		}
	case EventTaskComplete:
		if cfg.BeepEnabled {
			if err := d.sound.Play(); err != nil {
				errs = append(errs, fmt.Errorf("play sound: %w", err))
			}
		}
		if !cfg.TTSEnabled {
			break
		}
		if text, ok := d.completionText(cfg); ok {
			errs = append(errs, d.say(text, cfg.SelectedVoice))
		}
	default:
		return fmt.Errorf("notify: unknown event kind %q", kind)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) say(text, voice string) error {
	if err := d.speech.Say(text, d.ResolveVoice(voice)); err != nil {
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// ResolveVoice returns selected when the catalog offers it and "" otherwise.
func (d *Dispatcher) ResolveVoice(selected string) string {
	if selected == "" {
		return ""
	}
	available, err := d.voices.Voices()
	if err != nil || !slices.Contains(available, selected) {
		return ""
	}
	return selected
}

func (d *Dispatcher) Voices() ([]string, error) {
	return d.voices.Voices()
}

// RefreshVoices points cfg at the first available voice when its selection
// is empty or unknown. It reports whether cfg changed.
func (d *Dispatcher) RefreshVoices(cfg *model.ListConfiguration) bool {
	available, err := d.voices.Voices()
	if err != nil || len(available) == 0 {
		return false
	}
	if cfg.SelectedVoice != "" && slices.Contains(available, cfg.SelectedVoice) {
		return false
	}
	cfg.SelectedVoice = available[0]
	return true
}
