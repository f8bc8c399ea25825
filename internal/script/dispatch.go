package script

import (
	"container/heap"
	"time"

	"starops-sim/internal/mission"
)

// Message is the HUD/chat payload emitted by a message action. Key carries
// a localization key when no literal text is set.
type Message struct {
	Event     string
	Text      string
	Key       string
	Sender    string
	Duration  time.Duration
	Permanent bool
	Urgent    bool
	Style     string
}

// Sink receives the externally observable effects of fired actions. The
// host applies command and property effects synchronously so they are
// visible before its next AI/physics pass.
type Sink interface {
	// OnAction delivers command, set_properties, repair, and damage actions
	// together with their resolved subjects.
	OnAction(event string, action *mission.Action, subjects []Craft)
	OnMessage(msg Message)
	OnHud(section string, visible bool)
	OnMissionStateChanged(state mission.State)
}

// scheduledAction is one queued action dispatch. seq preserves declaration
// order among actions due at the same instant.
type scheduledAction struct {
	due    time.Duration
	seq    uint64
	event  string
	action *mission.Action
}

// actionQueue is a single global min-heap over absolute due time. One
// queue, not per-event queues: action delays are independent, so dispatch
// times from different events interleave and must be ordered globally.
type actionQueue []*scheduledAction

func (q actionQueue) Len() int { return len(q) }
func (q actionQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}
func (q actionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *actionQueue) Push(x any) { *q = append(*q, x.(*scheduledAction)) }
func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// scheduleActions enqueues every action of a fired event, each at the fire
// moment plus its own delay.
func (e *Engine) scheduleActions(ev *mission.Event, fireTime time.Duration) {
	for i := range ev.Actions {
		a := &ev.Actions[i]
		e.seq++
		heap.Push(&e.queue, &scheduledAction{
			due:    fireTime + millis(a.DelayMS),
			seq:    e.seq,
			event:  ev.Name,
			action: a,
		})
	}
}

// dispatchDue pops and dispatches every action whose due time has been
// reached.
func (e *Engine) dispatchDue() {
	for e.queue.Len() > 0 && e.queue[0].due <= e.now {
		sa := heap.Pop(&e.queue).(*scheduledAction)
		e.dispatch(sa)
	}
}

func (e *Engine) dispatch(sa *scheduledAction) {
	a := sa.action
	switch a.Kind {
	case mission.ActionMessage:
		p := a.Message
		e.sink.OnMessage(Message{
			Event:     sa.event,
			Text:      p.Text,
			Key:       p.Key,
			Sender:    p.Sender,
			Duration:  millis(p.DurationMS),
			Permanent: p.Permanent,
			Urgent:    p.Urgent,
			Style:     p.Style,
		})

	case mission.ActionHud:
		e.sink.OnHud(a.Hud.Section, a.Hud.Visible)

	case mission.ActionWin:
		e.transition(mission.StateCompleted)

	case mission.ActionLose:
		e.transition(mission.StateFailed)

	case mission.ActionCommand, mission.ActionSetProperties,
		mission.ActionRepair, mission.ActionDamage:
		subjects := Resolve(a.Subjects, e.world)
		live := subjects[:0]
		for _, s := range subjects {
			if !s.Destroyed() {
				live = append(live, s)
			}
		}
		// all targeted subjects already gone: no-op, not an error
		if len(live) == 0 {
			return
		}
		e.sink.OnAction(sa.event, a, live)
	}
}

// transition moves the mission state. The first terminal transition is
// authoritative; later win/lose dispatches are ignored.
func (e *Engine) transition(next mission.State) {
	if e.state.Terminal() {
		return
	}
	e.state = next
	e.sink.OnMissionStateChanged(next)
}
