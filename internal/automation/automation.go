package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/input"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted input sequence for headless runs.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Dt          float32 `yaml:"dt"`
	Duration    float32 `yaml:"duration"`
	Events      []Event `yaml:"events"`
}

// Event presses keys at time At. Interact is held until Until, or for a single
// tick when Until is zero. The other flags fire once, on the first tick at or
// after At.
type Event struct {
	At            float32 `yaml:"at"`
	Until         float32 `yaml:"until"`
	Interact      bool    `yaml:"interact"`
	ToggleGravity bool    `yaml:"toggle_gravity"`
	Reset         bool    `yaml:"reset"`
	Save          bool    `yaml:"save"`
	Exit          bool    `yaml:"exit"`
}

func (e Event) edge() bool {
	return e.ToggleGravity || e.Reset || e.Save || e.Exit
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	var errs []error
	if s.Dt < 0 {
		errs = append(errs, fmt.Errorf("dt must not be negative: %w", dynamo.ErrParameterBounds))
	}
	if s.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must not be negative: %w", dynamo.ErrParameterBounds))
	}
	for i, ev := range s.Events {
		if ev.At < 0 {
			errs = append(errs, fmt.Errorf("event %d: at must not be negative: %w", i+1, dynamo.ErrParameterBounds))
		}
		if ev.Until != 0 && ev.Until <= ev.At {
			errs = append(errs, fmt.Errorf("event %d: until must be after at: %w", i+1, dynamo.ErrParameterBounds))
		}
		if ev.Until != 0 && !ev.Interact {
			errs = append(errs, fmt.Errorf("event %d: until only applies to interact: %w", i+1, dynamo.ErrParameterBounds))
		}
	}
	return errors.Join(errs...)
}

// Script plays a scenario back as a tick input source.
type Script struct {
	events []Event
	fired  []bool
}

func NewScript(s *Scenario) *Script {
	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return &Script{
		events: events,
		fired:  make([]bool, len(events)),
	}
}

// Next returns the input for the tick starting at t. Calls must use
// non-decreasing t.
func (sc *Script) Next(t float32) input.State {
	var in input.State
	for i, ev := range sc.events {
		if ev.At > t {
			break
		}

		if ev.Interact {
			switch {
			case ev.Until == 0 && !sc.fired[i]:
				in.ShouldInteract = true
			case ev.Until != 0 && t < ev.Until:
				in.ShouldInteract = true
			}
		}

		if ev.edge() && !sc.fired[i] {
			in.ToggleGravity = in.ToggleGravity != ev.ToggleGravity
			in.ResetPosition = in.ResetPosition || ev.Reset
			in.SaveState = in.SaveState || ev.Save
			in.ExitApp = in.ExitApp || ev.Exit
		}
		sc.fired[i] = true
	}
	return in
}
