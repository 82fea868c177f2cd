package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/sirupsen/logrus"
)

// SnapEpsilon is the magnitude below which saved position and velocity
// components are written as exactly zero.
const SnapEpsilon = 1e-6

type snapshotIn struct {
	ID          *string    `json:"id"`
	Position    []*float32 `json:"position"`
	Velocity    []*float32 `json:"velocity"`
	Energy      *float32   `json:"energy"`
	State       *string    `json:"state"`
	IsGravityOn *bool      `json:"isGravityOn"`
}

type snapshotOut struct {
	ID          string     `json:"id"`
	Position    [3]float32 `json:"position"`
	Velocity    [3]float32 `json:"velocity"`
	Energy      float32    `json:"energy"`
	State       string     `json:"state"`
	IsGravityOn bool       `json:"isGravityOn"`
}

// Gateway converts the orb to and from its JSON snapshot. Its Load and Save
// never fail: problems are logged and a default orb is substituted.
type Gateway struct {
	log logrus.FieldLogger
}

func NewGateway(log logrus.FieldLogger) *Gateway {
	return &Gateway{log: log}
}

// LoadState returns the orb stored at path, or the default orb when the file is
// missing or malformed. There is no per-field recovery.
func (g *Gateway) LoadState(path string) dynamo.Orb {
	log := g.log.WithField("path", path)

	orb, clamped, err := readState(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("no snapshot found, starting new simulation")
		return dynamo.NewOrb()
	case err != nil:
		log.WithError(err).Error("failed to parse snapshot, starting new simulation with default values")
		return dynamo.NewOrb()
	}

	if clamped {
		log.WithField("energy", orb.Energy).Warn("snapshot energy outside [0,1], clamped")
	}
	log.Info("loaded previous state")
	return orb
}

// SaveState overwrites path with the orb's snapshot. Write errors are logged.
func (g *Gateway) SaveState(orb dynamo.Orb, path string) {
	log := g.log.WithField("path", path)
	if err := WriteState(orb, path); err != nil {
		log.WithError(err).Error("failed to save state")
		return
	}
	log.Info("entity state saved")
}

// ReadState is the fallible form of LoadState.
func ReadState(path string) (dynamo.Orb, error) {
	orb, _, err := readState(path)
	return orb, err
}

func readState(path string) (dynamo.Orb, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dynamo.Orb{}, false, err
	}
	return DecodeState(bytes.NewReader(data))
}

// DecodeState parses one snapshot document. The bool reports whether the
// stored energy had to be clamped into [0,1].
func DecodeState(r io.Reader) (dynamo.Orb, bool, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var in snapshotIn
	if err := dec.Decode(&in); err != nil {
		return dynamo.Orb{}, false, fmt.Errorf("%w: %v", dynamo.ErrInvalidSnapshot, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return dynamo.Orb{}, false, fmt.Errorf("%w: trailing data after document", dynamo.ErrInvalidSnapshot)
	}

	switch {
	case in.ID == nil:
		return dynamo.Orb{}, false, missing("id")
	case in.Position == nil:
		return dynamo.Orb{}, false, missing("position")
	case in.Velocity == nil:
		return dynamo.Orb{}, false, missing("velocity")
	case in.Energy == nil:
		return dynamo.Orb{}, false, missing("energy")
	case in.State == nil:
		return dynamo.Orb{}, false, missing("state")
	}

	pos, err := triple("position", in.Position)
	if err != nil {
		return dynamo.Orb{}, false, err
	}
	vel, err := triple("velocity", in.Velocity)
	if err != nil {
		return dynamo.Orb{}, false, err
	}

	orb := dynamo.NewOrb()
	orb.ID = *in.ID
	orb.Position = pos
	orb.Velocity = vel
	orb.Energy = dynamo.ClampEnergy(*in.Energy)
	orb.State = *in.State
	if in.IsGravityOn != nil {
		orb.IsGravityOn = *in.IsGravityOn
	}
	return orb, orb.Energy != *in.Energy, nil
}

// WriteState is the fallible form of SaveState.
func WriteState(orb dynamo.Orb, path string) error {
	data, err := EncodeState(orb)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EncodeState renders the pretty printed snapshot, snapping near-zero
// position and velocity components to zero.
func EncodeState(orb dynamo.Orb) ([]byte, error) {
	out := snapshotOut{
		ID:          orb.ID,
		Position:    snapVec(orb.Position),
		Velocity:    snapVec(orb.Velocity),
		Energy:      orb.Energy,
		State:       orb.State,
		IsGravityOn: orb.IsGravityOn,
	}
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func snapFloat(v float32) float32 {
	if mgl32.Abs(v) < SnapEpsilon {
		return 0
	}
	return v
}

func snapVec(v mgl32.Vec3) [3]float32 {
	return [3]float32{snapFloat(v[0]), snapFloat(v[1]), snapFloat(v[2])}
}

// triple rejects anything but three numbers. A null element decodes as nil.
func triple(key string, v []*float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("%w: %q needs 3 components, got %d", dynamo.ErrInvalidSnapshot, key, len(v))
	}
	var out mgl32.Vec3
	for i, c := range v {
		if c == nil {
			return mgl32.Vec3{}, fmt.Errorf("%w: %q component %d is null", dynamo.ErrInvalidSnapshot, key, i)
		}
		out[i] = *c
	}
	return out, nil
}

func missing(key string) error {
	return fmt.Errorf("%w: missing key %q", dynamo.ErrInvalidSnapshot, key)
}
