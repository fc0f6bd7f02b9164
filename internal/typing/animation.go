package typing

import "fmt"

// Phase is the state of an Animation.
type Phase int

const (
	// PhaseIdle: created, not started.
	PhaseIdle Phase = iota
	// PhaseThinking: the pulsing indicator is shown.
	PhaseThinking
	// PhaseRevealing: characters are appearing.
	PhaseRevealing
	// PhaseTagging: text complete, waiting to attach category tags.
	PhaseTagging
	// PhaseComplete: text and tags shown. The engine is idle again.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseThinking:
		return "thinking"
	case PhaseRevealing:
		return "revealing"
	case PhaseTagging:
		return "tagging"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Hooks are notified as an animation progresses. Either may be nil.
type Hooks struct {
	// OnChange is called after every phase change and revealed character.
	OnChange func(a *Animation)
	// OnComplete is called once, when the animation reaches PhaseComplete.
	OnComplete func(a *Animation)
}

// Animation walks a Plan on a Scheduler:
// Idle -> Thinking -> Revealing -> Tagging -> Complete.
// There is no cancellation; once started it runs to completion.
type Animation struct {
	plan     Plan
	runes    []rune
	phase    Phase
	revealed int
	sched    Scheduler
	hooks    Hooks
}

// NewAnimation prepares an animation for plan.
func NewAnimation(plan Plan, sched Scheduler, hooks Hooks) *Animation {
	return &Animation{
		plan:  plan,
		runes: []rune(plan.Text),
		sched: sched,
		hooks: hooks,
	}
}

// Start enters the thinking phase and schedules the rest of the chain.
// Calling Start twice has no effect.
func (a *Animation) Start() {
	if a.phase != PhaseIdle {
		return
	}
	a.setPhase(PhaseThinking)
	a.sched.After(a.plan.Think, a.beginReveal)
}

// Phase returns the current phase.
func (a *Animation) Phase() Phase { return a.phase }

// Thinking reports whether the indicator should be shown.
func (a *Animation) Thinking() bool { return a.phase == PhaseThinking }

// Done reports whether the animation has completed.
func (a *Animation) Done() bool { return a.phase == PhaseComplete }

// TagsVisible reports whether category tags should be shown.
func (a *Animation) TagsVisible() bool { return a.phase == PhaseComplete }

// Revealed returns the number of visible characters.
func (a *Animation) Revealed() int { return a.revealed }

// Text returns the currently visible prefix of the message.
func (a *Animation) Text() string {
	return string(a.runes[:a.revealed])
}

// Plan returns the schedule being played.
func (a *Animation) Plan() Plan { return a.plan }

func (a *Animation) beginReveal() {
	a.setPhase(PhaseRevealing)
	if len(a.runes) == 0 {
		a.beginTagging()
		return
	}
	a.sched.After(a.plan.Steps[0], a.revealNext)
}

func (a *Animation) revealNext() {
	a.revealed++
	a.changed()
	if a.revealed >= len(a.runes) {
		a.beginTagging()
		return
	}
	a.sched.After(a.plan.Steps[a.revealed], a.revealNext)
}

func (a *Animation) beginTagging() {
	a.setPhase(PhaseTagging)
	a.sched.After(a.plan.TagDelay, a.complete)
}

func (a *Animation) complete() {
	a.setPhase(PhaseComplete)
	if a.hooks.OnComplete != nil {
		a.hooks.OnComplete(a)
	}
}

func (a *Animation) setPhase(p Phase) {
	a.phase = p
	a.changed()
}

func (a *Animation) changed() {
	if a.hooks.OnChange != nil {
		a.hooks.OnChange(a)
	}
}
