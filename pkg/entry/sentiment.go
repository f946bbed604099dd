package entry

import (
	"fmt"
	"strings"
)

// Sentiment is the mood attached to an entry.
type Sentiment string

const (
	Happy   Sentiment = "HAPPY"
	Sad     Sentiment = "SAD"
	Angry   Sentiment = "ANGRY"
	Anxious Sentiment = "ANXIOUS"

	DefaultSentiment = Happy
)

// Sentiments lists every valid mood in display order.
func Sentiments() []Sentiment {
	return []Sentiment{Happy, Sad, Angry, Anxious}
}

// ParseSentiment is case-insensitive. An empty string yields the default.
func ParseSentiment(s string) (Sentiment, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultSentiment, nil
	}
	for _, v := range Sentiments() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("entry: unknown mood %q (expected one of happy, sad, angry, anxious)", s)
}

func (s Sentiment) Valid() bool {
	switch s {
	case Happy, Sad, Angry, Anxious:
		return true
	}
	return false
}

// Emoji returns the face shown next to the mood, or "" for unknown values.
func (s Sentiment) Emoji() string {
	switch s {
	case Happy:
		return "😊"
	case Sad:
		return "😢"
	case Angry:
		return "😠"
	case Anxious:
		return "😰"
	}
	return ""
}

// Label is the capitalized mood name, e.g. "Happy".
func (s Sentiment) Label() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// Next cycles through Sentiments, wrapping around.
func (s Sentiment) Next() Sentiment {
	all := Sentiments()
	for i, v := range all {
		if v == s {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultSentiment
}

func (s Sentiment) String() string {
	return string(s)
}
