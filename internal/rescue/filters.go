package rescue

import "math"

// Filter is the shared trait for the PT1/PT2/PT3 low-pass cascades used
// throughout the controller. Construction takes a gain rather than a raw
// cutoff so that callers control the sample interval explicitly (PT1Gain
// below folds cutoff and dt into one number); UpdateCutoff lets a filter's
// corner frequency track a schedule (the velocity D filter's cutoff moves
// with descent proximity) without the caller knowing it's a PT1 under the
// hood.
type Filter interface {
	Apply(x float64) float64
	UpdateCutoff(gain float64)
	Reset()
}

// PT1Gain computes the smoothing gain for a one-pole low-pass with corner
// frequency cutoffHz and sample interval dt (seconds): g = dt / (dt + rc),
// rc = 1/(2*pi*cutoffHz).
func PT1Gain(cutoffHz, dt float64) float64 {
	if cutoffHz <= 0 {
		return 1
	}
	rc := 1 / (2 * math.Pi * cutoffHz)
	return dt / (dt + rc)
}

// PT1 is a single one-pole low-pass section: y += g*(x-y).
type PT1 struct {
	state float64
	gain  float64
}

func NewPT1(gain float64) *PT1 {
	return &PT1{gain: gain}
}

func (f *PT1) Apply(x float64) float64 {
	f.state += f.gain * (x - f.state)
	return f.state
}

func (f *PT1) UpdateCutoff(gain float64) { f.gain = gain }
func (f *PT1) Reset()                    { f.state = 0 }

// PT2 cascades two PT1 sections, giving a steeper rolloff for the same
// corner frequency.
type PT2 struct {
	stage [2]PT1
}

func NewPT2(gain float64) *PT2 {
	f := &PT2{}
	f.stage[0].gain = gain
	f.stage[1].gain = gain
	return f
}

func (f *PT2) Apply(x float64) float64 {
	return f.stage[1].Apply(f.stage[0].Apply(x))
}

func (f *PT2) UpdateCutoff(gain float64) {
	f.stage[0].UpdateCutoff(gain)
	f.stage[1].UpdateCutoff(gain)
}

func (f *PT2) Reset() {
	f.stage[0].Reset()
	f.stage[1].Reset()
}

// PT3 cascades three PT1 sections; used to upsample the 1-10 Hz velocity
// PID output to the 100 Hz inner loop without stepping the pitch command.
type PT3 struct {
	stage [3]PT1
}

func NewPT3(gain float64) *PT3 {
	f := &PT3{}
	for i := range f.stage {
		f.stage[i].gain = gain
	}
	return f
}

func (f *PT3) Apply(x float64) float64 {
	y := f.stage[0].Apply(x)
	y = f.stage[1].Apply(y)
	return f.stage[2].Apply(y)
}

func (f *PT3) UpdateCutoff(gain float64) {
	for i := range f.stage {
		f.stage[i].UpdateCutoff(gain)
	}
}

func (f *PT3) Reset() {
	for i := range f.stage {
		f.stage[i].Reset()
	}
}
