// Package testutil provides in-memory doubles for the host sound and speech
// backends.
package testutil

import "sync"

// Utterance is one recorded Say call.
type Utterance struct {
	Text  string
	Voice string
}

// FakeSound counts Play calls.
type FakeSound struct {
	mu    sync.Mutex
	plays int

	// Error injection for testing
	PlayErr error
}

// Play implements notify.Sound.
func (f *FakeSound) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PlayErr != nil {
		return f.PlayErr
	}
	f.plays++
	return nil
}

// Plays returns how many times Play succeeded.
func (f *FakeSound) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

// FakeSpeech records utterances and serves a fixed voice list.
type FakeSpeech struct {
	mu     sync.Mutex
	said   []Utterance
	voices []string

	// Error injection for testing
	SayErr    error
	VoicesErr error
}

// NewFakeSpeech creates a FakeSpeech offering voices.
func NewFakeSpeech(voices ...string) *FakeSpeech {
	return &FakeSpeech{voices: voices}
}

// Say implements notify.Speech.
func (f *FakeSpeech) Say(text, voice string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SayErr != nil {
		return f.SayErr
	}
	f.said = append(f.said, Utterance{Text: text, Voice: voice})
	return nil
}

// Voices implements notify.VoiceCatalog.
func (f *FakeSpeech) Voices() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.VoicesErr != nil {
		return nil, f.VoicesErr
	}
	return append([]string(nil), f.voices...), nil
}

// Said returns a copy of the recorded utterances.
func (f *FakeSpeech) Said() []Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Utterance(nil), f.said...)
}

// Texts returns only the spoken texts.
func (f *FakeSpeech) Texts() []string {
	said := f.Said()
	out := make([]string, 0, len(said))
	for _, u := range said {
		out = append(out, u.Text)
	}
	return out
}
