package gamification

import "fmt"

// EventKind identifies what an Event reports.
type EventKind string

const (
	EventToast               EventKind = "toast"
	EventLevelUp             EventKind = "level_up"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventTaskCompleted       EventKind = "task_completed"
)

// Event is a notification produced by an Engine operation. Every event
// carries a display Message; the other fields are set by kind.
type Event struct {
	Kind        EventKind    `json:"kind"`
	Message     string       `json:"message"`
	Level       int          `json:"level,omitempty"`
	Achievement *Achievement `json:"achievement,omitempty"`
	Task        *Task        `json:"task,omitempty"`
}

func toast(msg string) Event {
	return Event{Kind: EventToast, Message: msg}
}

func levelUp(level int) Event {
	return Event{
		Kind:    EventLevelUp,
		Message: fmt.Sprintf("Level Up! Welcome to Level %d 🌟", level),
		Level:   level,
	}
}

func unlocked(a Achievement) Event {
	return Event{
		Kind:        EventAchievementUnlocked,
		Message:     "Achievement Unlocked: " + a.Title,
		Achievement: &a,
	}
}

func taskCompleted(t Task) Event {
	return Event{
		Kind:    EventTaskCompleted,
		Message: t.Label,
		Task:    &t,
	}
}

// Sink receives engine notifications. Implementations decide how to present
// them.
type Sink interface {
	OnLevelUp(level int)
	OnAchievementUnlocked(id, title string)
	OnTaskCompleted(task Task)
	OnToast(message string)
}

// Dispatch delivers events to sink in order. Level-ups and unlocks are also
// delivered as toasts carrying their message.
func Dispatch(sink Sink, events []Event) {
	if sink == nil {
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case EventLevelUp:
			sink.OnLevelUp(ev.Level)
			sink.OnToast(ev.Message)
		case EventAchievementUnlocked:
			if ev.Achievement != nil {
				sink.OnAchievementUnlocked(ev.Achievement.ID, ev.Achievement.Title)
			}
			sink.OnToast(ev.Message)
		case EventTaskCompleted:
			if ev.Task != nil {
				sink.OnTaskCompleted(*ev.Task)
			}
		case EventToast:
			sink.OnToast(ev.Message)
		}
	}
}
