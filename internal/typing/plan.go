// Package typing simulates a responder "typing" a message: a thinking pause
// followed by a character-by-character reveal.
//
// A Plan holds every delay of one animation up front; an Animation walks the
// plan on a Scheduler. Production code schedules on real timers, tests on a
// VirtualClock.
package typing

import (
	"time"
	"unicode/utf8"
)

// Mode selects the reveal algorithm.
type Mode string

const (
	// ModeChunked splits the text at punctuation and reveals characters at a
	// jittered human typing speed, pausing after punctuation.
	ModeChunked Mode = "chunked"

	// ModeUniform reveals characters at a fixed interval derived from the
	// message length.
	ModeUniform Mode = "uniform"
)

// Config holds the timing parameters of the simulation.
type Config struct {
	Mode Mode

	// Thinking delay for chunked mode: clamp(len*ThinkPerChar, ThinkMin, ThinkMax)
	ThinkPerChar time.Duration
	ThinkMin     time.Duration
	ThinkMax     time.Duration

	// Chunked reveal
	CharInterval  time.Duration
	Jitter        time.Duration // random extra delay in [0, Jitter) per character
	ClausePause   time.Duration // after , ; :
	SentencePause time.Duration // after . ! ?

	// Uniform reveal: fixed think, total reveal time clamp(len*PerChar, Min, Max)
	UniformThink   time.Duration
	UniformPerChar time.Duration
	UniformMin     time.Duration
	UniformMax     time.Duration

	// TagDelay is the trailing pause before category tags appear.
	TagDelay time.Duration
}

// DefaultConfig returns the default timing configuration.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeChunked,
		ThinkPerChar:   20 * time.Millisecond,
		ThinkMin:       1 * time.Second,
		ThinkMax:       4500 * time.Millisecond,
		CharInterval:   35 * time.Millisecond,
		Jitter:         25 * time.Millisecond,
		ClausePause:    150 * time.Millisecond,
		SentencePause:  350 * time.Millisecond,
		UniformThink:   1500 * time.Millisecond,
		UniformPerChar: 20 * time.Millisecond,
		UniformMin:     1 * time.Second,
		UniformMax:     5 * time.Second,
		TagDelay:       250 * time.Millisecond,
	}
}

// Rand is the source of per-character jitter. *math/rand.Rand satisfies it.
type Rand interface {
	Int63n(n int64) int64
}

// Plan is the full schedule of one typing animation.
type Plan struct {
	Text  string
	Think time.Duration
	// Steps[i] is the delay before rune i becomes visible, measured from the
	// moment rune i-1 (or the end of thinking) became visible.
	Steps    []time.Duration
	TagDelay time.Duration
}

// Runes returns the number of characters the plan reveals.
func (p Plan) Runes() int {
	return len(p.Steps)
}

// Total returns the duration from start to tags shown.
func (p Plan) Total() time.Duration {
	total := p.Think + p.TagDelay
	for _, d := range p.Steps {
		total += d
	}
	return total
}

// NewPlan builds the schedule for text. rnd may be nil to disable jitter.
func NewPlan(text string, cfg Config, rnd Rand) Plan {
	if cfg.Mode == ModeUniform {
		return uniformPlan(text, cfg)
	}
	return chunkedPlan(text, cfg, rnd)
}

// ThinkingDelay returns the chunked-mode thinking pause for a message of n
// characters.
func ThinkingDelay(n int, cfg Config) time.Duration {
	return clamp(time.Duration(n)*cfg.ThinkPerChar, cfg.ThinkMin, cfg.ThinkMax)
}

func uniformPlan(text string, cfg Config) Plan {
	n := utf8.RuneCountInString(text)
	plan := Plan{
		Text:     text,
		Think:    cfg.UniformThink,
		Steps:    make([]time.Duration, n),
		TagDelay: cfg.TagDelay,
	}
	if n == 0 {
		return plan
	}

	total := clamp(time.Duration(n)*cfg.UniformPerChar, cfg.UniformMin, cfg.UniformMax)
	interval := total / time.Duration(n)
	for i := range plan.Steps {
		plan.Steps[i] = interval
	}
	return plan
}

func chunkedPlan(text string, cfg Config, rnd Rand) Plan {
	n := utf8.RuneCountInString(text)
	plan := Plan{
		Text:     text,
		Think:    ThinkingDelay(n, cfg),
		Steps:    make([]time.Duration, 0, n),
		TagDelay: cfg.TagDelay,
	}

	var pause time.Duration
	for _, chunk := range Chunks(text) {
		for range chunk {
			d := cfg.CharInterval + pause
			if rnd != nil && cfg.Jitter > 0 {
				d += time.Duration(rnd.Int63n(int64(cfg.Jitter)))
			}
			plan.Steps = append(plan.Steps, d)
			pause = 0
		}
		pause = pauseAfter(chunk, cfg)
	}
	return plan
}

// pauseAfter returns the extra pause owed after a chunk, based on its final
// punctuation.
func pauseAfter(chunk string, cfg Config) time.Duration {
	last, _ := utf8.DecodeLastRuneInString(chunk)
	switch {
	case isSentenceEnd(last):
		return cfg.SentencePause
	case isClauseEnd(last):
		return cfg.ClausePause
	default:
		return 0
	}
}

// Chunks splits text after each run of punctuation. Concatenating the chunks
// yields the original text.
//
//	"Hello! How are you, friend?" => ["Hello!", " How are you,", " friend?"]
func Chunks(text string) []string {
	var chunks []string
	start := 0
	inPunct := false
	for i, r := range text {
		punct := isPunctuation(r)
		if inPunct && !punct {
			chunks = append(chunks, text[start:i])
			start = i
		}
		inPunct = punct
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClauseEnd(r rune) bool {
	return r == ',' || r == ';' || r == ':'
}

func isPunctuation(r rune) bool {
	return isSentenceEnd(r) || isClauseEnd(r)
}

func clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
