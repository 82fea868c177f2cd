package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbsim/internal/dynamo"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestGateway() (*Gateway, *test.Hook) {
	log, hook := test.NewNullLogger()
	return NewGateway(log), hook
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entity_state.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sampleOrb() dynamo.Orb {
	orb := dynamo.NewOrb()
	orb.ID = "entity_42"
	orb.Position = mgl32.Vec3{1.5, 2.25, -3}
	orb.Velocity = mgl32.Vec3{0.5, -9.75, 0}
	orb.Energy = 0.8
	orb.State = "charging"
	orb.IsGravityOn = true
	return orb
}

func sameSnapshot(a, b dynamo.Orb) bool {
	return a.ID == b.ID && a.Position == b.Position && a.Velocity == b.Velocity &&
		a.Energy == b.Energy && a.State == b.State && a.IsGravityOn == b.IsGravityOn
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	orb := sampleOrb()

	if err := WriteState(orb, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadState(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !sameSnapshot(orb, got) {
		t.Errorf("round trip mismatch:\nwant %+v\n got %+v", orb, got)
	}
}

func TestGatewayDoubleRoundTrip(t *testing.T) {
	g, _ := newTestGateway()
	path := filepath.Join(t.TempDir(), "state.json")
	orb := sampleOrb()

	g.SaveState(orb, path)
	first := g.LoadState(path)
	g.SaveState(first, path)
	second := g.LoadState(path)

	if !sameSnapshot(orb, second) {
		t.Errorf("double round trip mismatch:\nwant %+v\n got %+v", orb, second)
	}
}

func TestEncodeFormat(t *testing.T) {
	data, err := EncodeState(dynamo.NewOrb())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"{\n    \"id\": \"entity_01\",",
		"\"position\": [\n        0,\n        5,\n        0\n    ]",
		"\"energy\": 0.5,",
		"\"state\": \"active\",",
		"\"isGravityOn\": false\n}",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("encoded snapshot missing %q:\n%s", want, text)
		}
	}

	order := []string{"\"id\"", "\"position\"", "\"velocity\"", "\"energy\"", "\"state\"", "\"isGravityOn\""}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		if idx <= last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
}

func TestEncodeSnapsTinyComponents(t *testing.T) {
	orb := dynamo.NewOrb()
	orb.Position = mgl32.Vec3{1e-7, 1, -5e-7}
	orb.Velocity = mgl32.Vec3{2e-6, -9e-7, 0}

	data, err := EncodeState(orb)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := DecodeState(strings.NewReader(string(data)))
	if err != nil {
		t.Fatal(err)
	}

	if got.Position != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected snapped position, got %v", got.Position)
	}
	if got.Velocity[0] != 2e-6 || got.Velocity[1] != 0 {
		t.Errorf("expected only sub-epsilon snapped, got %v", got.Velocity)
	}
	if strings.Contains(string(data), "e-0") {
		t.Errorf("snapped values should not be written in exponent form:\n%s", data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	g, hook := newTestGateway()
	path := filepath.Join(t.TempDir(), "absent.json")

	orb := g.LoadState(path)
	if !sameSnapshot(orb, dynamo.NewOrb()) {
		t.Errorf("expected default orb, got %+v", orb)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.InfoLevel {
		t.Errorf("expected info entry, got %+v", hook.LastEntry())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("loading must not create the file")
	}

	if _, err := ReadState(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "orb"},
		{"array", "[1,2,3]"},
		{"missing id", `{"position":[0,1,0],"velocity":[0,0,0],"energy":0.5,"state":"active"}`},
		{"missing position", `{"id":"e","velocity":[0,0,0],"energy":0.5,"state":"active"}`},
		{"missing velocity", `{"id":"e","position":[0,1,0],"energy":0.5,"state":"active"}`},
		{"missing energy", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"state":"active"}`},
		{"missing state", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":0.5}`},
		{"short position", `{"id":"e","position":[0,1],"velocity":[0,0,0],"energy":0.5,"state":"active"}`},
		{"long velocity", `{"id":"e","position":[0,1,0],"velocity":[0,0,0,0],"energy":0.5,"state":"active"}`},
		{"null position component", `{"id":"e","position":[null,7,2],"velocity":[0,0,0],"energy":0.5,"state":"active"}`},
		{"null velocity component", `{"id":"e","position":[0,1,0],"velocity":[0,0,null],"energy":0.5,"state":"active"}`},
		{"null energy", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":null,"state":"active"}`},
		{"string position", `{"id":"e","position":"up","velocity":[0,0,0],"energy":0.5,"state":"active"}`},
		{"string energy", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":"full","state":"active"}`},
		{"numeric id", `{"id":7,"position":[0,1,0],"velocity":[0,0,0],"energy":0.5,"state":"active"}`},
		{"string gravity", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":0.5,"state":"active","isGravityOn":"yes"}`},
		{"unknown key", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":0.5,"state":"active","mass":2}`},
		{"trailing document", `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":0.5,"state":"active"} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, hook := newTestGateway()
			path := writeFile(t, tt.content)

			orb := g.LoadState(path)
			if !sameSnapshot(orb, dynamo.NewOrb()) {
				t.Errorf("expected default orb, got %+v", orb)
			}

			entry := hook.LastEntry()
			if entry == nil || entry.Level != logrus.ErrorLevel {
				t.Fatalf("expected error entry, got %+v", entry)
			}
			if entry.Data["path"] != path {
				t.Errorf("expected path field %q, got %v", path, entry.Data["path"])
			}

			if _, err := ReadState(path); !errors.Is(err, dynamo.ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}

func TestLoadOptionalGravity(t *testing.T) {
	g, hook := newTestGateway()
	path := writeFile(t, `{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":0.5,"state":"active"}`)

	orb := g.LoadState(path)
	if orb.ID != "e" || orb.IsGravityOn {
		t.Errorf("unexpected orb %+v", orb)
	}
	if hook.LastEntry().Level != logrus.InfoLevel {
		t.Errorf("expected info entry, got %v", hook.LastEntry().Level)
	}
}

func TestLoadClampsEnergy(t *testing.T) {
	tests := []struct {
		content string
		want    float32
	}{
		{`{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":1.7,"state":"active"}`, 1},
		{`{"id":"e","position":[0,1,0],"velocity":[0,0,0],"energy":-0.2,"state":"active"}`, 0},
	}

	for _, tt := range tests {
		g, hook := newTestGateway()
		orb := g.LoadState(writeFile(t, tt.content))
		if orb.Energy != tt.want {
			t.Errorf("expected energy %v, got %v", tt.want, orb.Energy)
		}

		warned := false
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.WarnLevel {
				warned = true
			}
		}
		if !warned {
			t.Error("expected a warning for clamped energy")
		}
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	g, hook := newTestGateway()
	path := filepath.Join(t.TempDir(), "missing", "dir", "state.json")

	g.SaveState(dynamo.NewOrb(), path)

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected error entry, got %+v", entry)
	}
	if err := WriteState(dynamo.NewOrb(), path); err == nil {
		t.Error("expected write error")
	}
}

func TestSaveOverwrites(t *testing.T) {
	g, _ := newTestGateway()
	path := writeFile(t, "garbage that is much longer than any snapshot would be, padded out to make sure truncation happens ................................................")

	g.SaveState(sampleOrb(), path)
	got, err := ReadState(path)
	if err != nil {
		t.Fatalf("read after overwrite failed: %v", err)
	}
	if !sameSnapshot(got, sampleOrb()) {
		t.Errorf("unexpected orb %+v", got)
	}
}
