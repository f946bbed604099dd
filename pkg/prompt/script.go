package prompt

import (
	"errors"
	"fmt"

	"tableflip.dev/journal/pkg/entry"
)

// Script answers prompts from a fixed list of replies, in order. It is meant
// for tests and for --yes style automation.
type Script struct {
	Answers []string
	Asked   []string
}

func (s *Script) next(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Answers) == 0 {
		return "", fmt.Errorf("prompt: no scripted answer for %q: %w", label, ErrAborted)
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

func (s *Script) Text(label, def string, validate func(string) error) (string, error) {
	a, err := s.next(label)
	if err != nil {
		return "", err
	}
	if a == "" {
		a = def
	}
	if validate != nil {
		if err := validate(a); err != nil {
			return "", err
		}
	}
	return a, nil
}

func (s *Script) Password(label string) (string, error) {
	return s.next(label)
}

func (s *Script) Confirm(label string) (bool, error) {
	a, err := s.next(label)
	if err != nil {
		return false, err
	}
	if a == "" {
		return false, nil
	}
	ok, err := ParseBool(a)
	if err != nil {
		return false, errors.New("prompt: answer yes or no")
	}
	return ok, nil
}

func (s *Script) Mood(label string, def entry.Sentiment) (entry.Sentiment, error) {
	a, err := s.next(label)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return entry.ParseSentiment(a)
}
