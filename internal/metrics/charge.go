package metrics

import "github.com/san-kum/orbsim/internal/sim"

type PeakCharge struct {
	name string
	peak float64
}

func NewPeakCharge() *PeakCharge {
	return &PeakCharge{name: "peak_charge"}
}

func (p *PeakCharge) Name() string { return p.name }

func (p *PeakCharge) Observe(f sim.Frame) {
	if e := float64(f.Orb.Energy); e > p.peak {
		p.peak = e
	}
}

func (p *PeakCharge) Value() float64 { return p.peak }
func (p *PeakCharge) Reset()         { p.peak = 0 }

// InteractDuty is the fraction of ticks with the interact key held.
type InteractDuty struct {
	name    string
	held    int
	samples int
}

func NewInteractDuty() *InteractDuty {
	return &InteractDuty{name: "interact_duty"}
}

func (d *InteractDuty) Name() string { return d.name }

func (d *InteractDuty) Observe(f sim.Frame) {
	if f.Input.ShouldInteract {
		d.held++
	}
	d.samples++
}

func (d *InteractDuty) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.held) / float64(d.samples)
}

func (d *InteractDuty) Reset() {
	d.held = 0
	d.samples = 0
}
