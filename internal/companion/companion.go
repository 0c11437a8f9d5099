// Package companion holds the garden's canned words: journal replies, quest
// ideas and writing prompts.
package companion

import (
	"math/rand/v2"
	"strings"
)

// Fallback is the reply when no keyword matches.
const Fallback = "Thank you for sharing that."

type rule struct {
	keywords []string
	reply    string
}

var rules = []rule{
	{[]string{"sad", "tired"}, "It's okay to feel this way. Be gentle with yourself today."},
	{[]string{"happy", "excited"}, "That is wonderful! Hold onto that feeling."},
	{[]string{"worry", "anxious"}, "Take a deep breath. Focus on what you can control right now."},
}

// Reply picks a gentle response to a journal entry by keyword. Rules are
// checked in order and the first match wins.
func Reply(text string) string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply
			}
		}
	}
	return Fallback
}

// DefaultQuests are the stock quest ideas.
var DefaultQuests = []string{
	"Stretch for 5m",
	"Drink Water",
	"Look out window",
	"Relax Jaw",
	"3 Deep Breaths",
}

// DefaultPrompts are the stock journal prompts.
var DefaultPrompts = []string{
	"What is one small win from today?",
	"What is weighing on your mind?",
	"Describe your ideal relaxing place.",
	"Who are you grateful for today?",
}

// Pick returns a random element of list, or "" when it is empty.
func Pick(rng *rand.Rand, list []string) string {
	if len(list) == 0 {
		return ""
	}
	if rng == nil {
		return list[rand.IntN(len(list))]
	}
	return list[rng.IntN(len(list))]
}
