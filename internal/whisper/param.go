package whisper

import (
	"math"
	"slices"
)

type rampKind int

const (
	setValue rampKind = iota
	linearRamp
	exponentialRamp
)

type paramEvent struct {
	kind  rampKind
	time  float64
	value float64
}

// Param is an automatable value on the context clock. Events are kept in
// time order; events sharing a time keep insertion order.
type Param struct {
	def    float64
	events []paramEvent
}

func NewParam(def float64) *Param {
	return &Param{def: def}
}

func (p *Param) insert(e paramEvent) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > e.time {
		i--
	}
	p.events = slices.Insert(p.events, i, e)
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(paramEvent{setValue, t, v})
}

func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(paramEvent{linearRamp, t, v})
}

func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.insert(paramEvent{exponentialRamp, t, v})
}

// CancelScheduledValues drops every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.events = slices.DeleteFunc(p.events, func(e paramEvent) bool {
		return e.time >= t
	})
}

// ValueAt evaluates the automation curve at context time t.
func (p *Param) ValueAt(t float64) float64 {
	v := p.def
	prevT := math.Inf(-1)
	for _, e := range p.events {
		if e.time <= t {
			v = e.value
			prevT = e.time
			continue
		}
		if math.IsInf(prevT, -1) {
			return v
		}
		k := (t - prevT) / (e.time - prevT)
		switch e.kind {
		case linearRamp:
			return v + (e.value-v)*k
		case exponentialRamp:
			if v == 0 || e.value == 0 || (v < 0) != (e.value < 0) {
				return v
			}
			return v * math.Pow(e.value/v, k)
		}
		return v
	}
	return v
}
