package overlay

import (
	"fmt"
	"math"
)

// Envelope is a closed-form function of time. Backends either evaluate it on
// their own timeline (scene renderer) or emit it as an ffmpeg expression
// (filter-graph renderer); values are never pre-sampled here.
type Envelope interface {
	// Eval returns the value at time t seconds.
	Eval(t float64) float64
	// FFmpeg returns the equivalent ffmpeg expression in terms of t.
	FFmpeg() string
}

// Const is a constant value.
type Const float64

func (c Const) Eval(t float64) float64 { return float64(c) }
func (c Const) FFmpeg() string         { return formatNum(float64(c)) }

// Ramp interpolates linearly from From to To over [Start, End] and clamps
// outside that window.
type Ramp struct {
	From, To   float64
	Start, End float64
}

func (r Ramp) Eval(t float64) float64 {
	if t <= r.Start {
		return r.From
	}
	if t >= r.End {
		return r.To
	}
	return r.From + (r.To-r.From)*(t-r.Start)/(r.End-r.Start)
}

func (r Ramp) FFmpeg() string {
	span := r.End - r.Start
	return fmt.Sprintf("if(lt(t,%s),%s,if(lt(t,%s),%s+(%s)*(t-%s)/%s,%s))",
		formatNum(r.Start), formatNum(r.From),
		formatNum(r.End),
		formatNum(r.From), formatNum(r.To-r.From), formatNum(r.Start), formatNum(span),
		formatNum(r.To))
}

// Osc is a continuous oscillation Base + Amp*sin(Freq*t + Phase).
type Osc struct {
	Base, Amp, Freq, Phase float64
}

func (o Osc) Eval(t float64) float64 {
	return o.Base + o.Amp*math.Sin(o.Freq*t+o.Phase)
}

func (o Osc) FFmpeg() string {
	expr := fmt.Sprintf("sin(%s*t", formatNum(o.Freq))
	if o.Phase != 0 {
		expr += "+" + formatNum(o.Phase)
	}
	expr += ")"
	expr = formatNum(o.Amp) + "*" + expr
	if o.Base != 0 {
		expr = formatNum(o.Base) + "+" + expr
	}
	return expr
}

// DampedOsc is a decaying oscillation (1 - t/Until)*Amp*sin(Freq*t) that
// settles to zero at Until.
type DampedOsc struct {
	Amp, Freq, Until float64
}

func (d DampedOsc) Eval(t float64) float64 {
	if t >= d.Until {
		return 0
	}
	return (1 - t/d.Until) * d.Amp * math.Sin(d.Freq*t)
}

func (d DampedOsc) FFmpeg() string {
	return fmt.Sprintf("if(lt(t,%s),(1-t/%s)*%s*sin(%s*t),0)",
		formatNum(d.Until), formatNum(d.Until), formatNum(d.Amp), formatNum(d.Freq))
}

// Animation holds the three envelopes of one overlay element: opacity in
// [0,1] plus horizontal and vertical pixel offsets from the resting position.
type Animation struct {
	Opacity Envelope
	X       Envelope
	Y       Envelope
}

const (
	slideDistance   = 1000.0 // far enough off-screen on a 1080x1920 canvas
	bounceAmplitude = 50.0
	bounceFrequency = 10.0
	shakeAmplitude  = 10.0
	shakeFrequency  = 20.0
	pulseFrequency  = 3.0
	// fallbackAnimSeconds is used when the source duration is unknown.
	fallbackAnimSeconds = 2.0
)

// AnimDuration derives the animation window from the video duration: half the
// video when known, a fixed 2s fallback otherwise.
func AnimDuration(videoDuration float64) float64 {
	if videoDuration > 0 {
		return videoDuration / 2
	}
	return fallbackAnimSeconds
}

// BuildAnimation produces the envelopes for one AnimationKind over an
// animation window of d seconds.
func BuildAnimation(kind AnimationKind, d float64) Animation {
	still := Animation{Opacity: Const(1), X: Const(0), Y: Const(0)}

	switch kind {
	case AnimFadeIn:
		still.Opacity = Ramp{From: 0, To: 1, Start: 0, End: d}
	case AnimFadeOut:
		still.Opacity = Ramp{From: 1, To: 0, Start: d, End: 2 * d}
	case AnimSlideInLeft:
		still.X = Ramp{From: -slideDistance, To: 0, Start: 0, End: d}
	case AnimSlideInRight:
		still.X = Ramp{From: slideDistance, To: 0, Start: 0, End: d}
	case AnimSlideInTop:
		still.Y = Ramp{From: -slideDistance, To: 0, Start: 0, End: d}
	case AnimSlideInBottom:
		still.Y = Ramp{From: slideDistance, To: 0, Start: 0, End: d}
	case AnimZoomIn:
		// No scale primitive in the filter-graph backend; opacity stands in
		// for the pop-in.
		still.Opacity = Ramp{From: 0, To: 1, Start: 0, End: d}
	case AnimBounceIn:
		still.Opacity = Ramp{From: 0, To: 1, Start: 0, End: d}
		still.Y = DampedOsc{Amp: bounceAmplitude, Freq: bounceFrequency, Until: d}
	case AnimPulse:
		still.Opacity = Osc{Base: 0.5, Amp: 0.5, Freq: pulseFrequency}
	case AnimShake:
		still.X = Osc{Amp: shakeAmplitude, Freq: shakeFrequency}
		still.Y = Osc{Amp: shakeAmplitude, Freq: shakeFrequency, Phase: math.Pi / 2} // cos
	case AnimRotateIn:
		// No rotation primitive in the target renderer; degrades to fade-in.
		still.Opacity = Ramp{From: 0, To: 1, Start: 0, End: d}
	case AnimTypewriter:
		// Placeholder: no progressive reveal, text is simply visible.
	case AnimNone:
	}

	return still
}

// formatNum renders a float without trailing zeros, keeping ffmpeg
// expressions readable.
func formatNum(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}
