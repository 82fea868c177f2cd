package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/san-kum/orbsim/internal/sim"
)

// Store keeps headless runs under baseDir, one directory per run holding
// metadata.json and states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Scenario   string             `json:"scenario,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Gravity    float64            `json:"gravity"`
	Sleep      bool               `json:"sleep"`
	Cube       bool               `json:"cube"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"time",
	"orb_x", "orb_y", "orb_z",
	"orb_vx", "orb_vy", "orb_vz",
	"energy", "sleeping", "gravity",
}

var cubeHeader = []string{"cube_x", "cube_y", "cube_z"}

// Save writes meta and the result trace. ID, Timestamp, Steps and Metrics are
// filled in from the run and the returned id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = result.Steps
	meta.Metrics = result.Metrics

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	if len(result.Samples) == 0 {
		w.Flush()
		return runID, w.Error()
	}

	withCube := result.Samples[0].HasCube
	header := csvHeader
	if withCube {
		header = append(append([]string{}, csvHeader...), cubeHeader...)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, smp := range result.Samples {
		row := []string{formatFloat(smp.Time)}
		for _, v := range smp.OrbPosition {
			row = append(row, formatFloat(v))
		}
		for _, v := range smp.OrbVelocity {
			row = append(row, formatFloat(v))
		}
		row = append(row,
			formatFloat(smp.Energy),
			strconv.FormatBool(smp.Equilibrium == dynamo.Sleeping),
			strconv.FormatBool(smp.GravityOn),
		)
		if withCube {
			for _, v := range smp.CubePosition {
				row = append(row, formatFloat(v))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads the trace back. Rows that fail to parse are skipped.
func (s *Store) LoadStates(runID string) ([]sim.Sample, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	withCube := len(records[0]) == len(csvHeader)+len(cubeHeader)
	samples := make([]sim.Sample, 0, len(records)-1)

	for _, record := range records[1:] {
		smp, ok := parseRow(record, withCube)
		if !ok {
			continue
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseRow(record []string, withCube bool) (sim.Sample, bool) {
	want := len(csvHeader)
	if withCube {
		want += len(cubeHeader)
	}
	if len(record) != want {
		return sim.Sample{}, false
	}

	floats := make([]float32, 0, 8)
	for idx := 0; idx < 8; idx++ {
		v, err := strconv.ParseFloat(record[idx], 32)
		if err != nil {
			return sim.Sample{}, false
		}
		floats = append(floats, float32(v))
	}
	sleeping, err := strconv.ParseBool(record[8])
	if err != nil {
		return sim.Sample{}, false
	}
	gravity, err := strconv.ParseBool(record[9])
	if err != nil {
		return sim.Sample{}, false
	}

	smp := sim.Sample{
		Time:        floats[0],
		OrbPosition: mgl32.Vec3{floats[1], floats[2], floats[3]},
		OrbVelocity: mgl32.Vec3{floats[4], floats[5], floats[6]},
		Energy:      floats[7],
		GravityOn:   gravity,
	}
	if sleeping {
		smp.Equilibrium = dynamo.Sleeping
	}

	if withCube {
		var cube mgl32.Vec3
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(record[10+i], 32)
			if err != nil {
				return sim.Sample{}, false
			}
			cube[i] = float32(v)
		}
		smp.HasCube = true
		smp.CubePosition = cube
	}
	return smp, true
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}
