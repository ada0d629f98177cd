package model

import (
	"fmt"
	"strings"
)

const DefaultCustomMessage = "Task completed!"

// NotificationMode values double as the persisted identifiers.
type NotificationMode string

const (
	ModeNameAndDurationOnStart      NotificationMode = "taskNamePlusDurationStart"
	ModeNameOnStart                 NotificationMode = "taskNameStart"
	ModeDurationOnStart             NotificationMode = "durationStart"
	ModeCustomMessageOnComplete     NotificationMode = "customCompletion"
	ModeRandomAffirmationOnComplete NotificationMode = "randomAffirmation"
)

var modeAliases = map[string]NotificationMode{
	"name-duration": ModeNameAndDurationOnStart,
	"name":          ModeNameOnStart,
	"duration":      ModeDurationOnStart,
	"custom":        ModeCustomMessageOnComplete,
	"affirmation":   ModeRandomAffirmationOnComplete,
}

func (m NotificationMode) IsValid() bool {
	switch m {
	case ModeNameAndDurationOnStart, ModeNameOnStart, ModeDurationOnStart,
		ModeCustomMessageOnComplete, ModeRandomAffirmationOnComplete:
		return true
	default:
		return false
	}
}

// ShortName is the alias accepted by ParseNotificationMode.
func (m NotificationMode) ShortName() string {
	for alias, mode := range modeAliases {
		if mode == m {
			return alias
		}
	}
	return string(m)
}

// ParseNotificationMode accepts either a persisted identifier or a short alias.
func ParseNotificationMode(raw string) (NotificationMode, error) {
	trimmed := strings.TrimSpace(raw)
	if m := NotificationMode(trimmed); m.IsValid() {
		return m, nil
	}
	if m, ok := modeAliases[strings.ToLower(trimmed)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown notification mode %q", ErrValidation, raw)
}

type ListConfiguration struct {
	BeepEnabled      bool             `json:"beepEnabled"`
	TTSEnabled       bool             `json:"ttsEnabled"`
	SelectedVoice    string           `json:"selectedVoiceName"`
	NotificationMode NotificationMode `json:"ttsMode"`
	CustomMessage    string           `json:"ttsCustomMessage"`
}

func DefaultListConfiguration() ListConfiguration {
	return ListConfiguration{
		BeepEnabled:      true,
		TTSEnabled:       false,
		SelectedVoice:    "",
		NotificationMode: ModeNameAndDurationOnStart,
		CustomMessage:    DefaultCustomMessage,
	}
}

func newDefaultConfig() *ListConfiguration {
	cfg := DefaultListConfiguration()
	return &cfg
}
