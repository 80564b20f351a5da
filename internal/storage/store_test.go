package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
)

func sampleResult() *experiment.Result {
	return &experiment.Result{
		Scene:      "collision",
		Integrator: "yoshida4",
		Force:      "direct",
		Seed:       42,
		Frames:     2,
		FrameDt:    1.0 / 60,
		Elapsed:    3 * time.Millisecond,
		Samples: []experiment.Sample{
			{Frame: 0, Time: 0, Bodies: 4, Kinetic: 10, Potential: -30, Total: -20, Momentum: 0.5},
			{Frame: 2, Time: 1.0 / 30, Bodies: 3, Particles: 120, Kinetic: 12, Potential: -31.5, Total: -19.5, Momentum: 0.5},
		},
		Collisions: []experiment.CollisionRecord{{
			Frame:     1,
			Time:      1.0 / 60,
			Type:      "explosion",
			A:         "Rock A",
			B:         "Rock, B",
			Mass:      9,
			Impact:    80.25,
			Position:  dynamo.V(1.5, -2, 0.125),
			Supernova: false,
			Products:  []string{"Fragment_1_0"},
		}},
		Metrics: map[string]float64{"energy_drift": 0.025},
		Bodies:  []experiment.BodyState{{Name: "Ice A"}, {Name: "Ice B"}, {Name: "Fragment_1_0"}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := sampleResult()
	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "collision", meta.Scene)
	assert.Equal(t, "yoshida4", meta.Integrator)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 3, meta.Bodies)
	assert.Equal(t, 1, meta.Collisions)
	assert.Equal(t, "3ms", meta.Elapsed)
	assert.Equal(t, 0.025, meta.Metrics["energy_drift"])
	assert.Equal(t, 2, meta.Energy.N)
	assert.InDelta(t, -19.75, meta.Energy.Mean, 1e-12)

	samples, err := st.LoadEnergy(runID)
	require.NoError(t, err)
	assert.Equal(t, res.Samples, samples)

	collisions, err := st.LoadCollisions(runID)
	require.NoError(t, err)
	require.Len(t, collisions, 1)
	want := res.Collisions[0]
	want.Products = nil
	assert.Equal(t, want, collisions[0])
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	st.now = func() time.Time { return clock }

	older := sampleResult()
	older.Scene = "supernova"
	first, err := st.Save(older)
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	newest, err := st.Save(sampleResult())
	require.NoError(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "not-a-run"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newest, runs[0].ID)
	assert.Equal(t, "collision", runs[0].Scene)
	assert.Equal(t, first, runs[1].ID)
	assert.True(t, runs[0].Timestamp.After(runs[1].Timestamp))
}

func TestStoreList_MissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	_, err := st.Load("nope")
	assert.Error(t, err)
	_, err = st.LoadEnergy("nope")
	assert.Error(t, err)

	runID, err := st.Save(sampleResult())
	require.NoError(t, err)

	bad := "frame,time,bodies,particles,kinetic,potential,total,momentum\n1,abc,2,0,1,1,1,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, runID, "energy.csv"), []byte(bad), 0644))
	_, err = st.LoadEnergy(runID)
	assert.ErrorContains(t, err, "row 1")

	short := "frame,time\n1,2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, runID, "collisions.csv"), []byte(short), 0644))
	_, err = st.LoadCollisions(runID)
	assert.Error(t, err)
}

func TestStoreSave_NoCollisions(t *testing.T) {
	st := New(t.TempDir())
	res := sampleResult()
	res.Collisions = nil

	runID, err := st.Save(res)
	require.NoError(t, err)

	collisions, err := st.LoadCollisions(runID)
	require.NoError(t, err)
	assert.Empty(t, collisions)
}

func TestStoreResult(t *testing.T) {
	st := New(t.TempDir())
	res := sampleResult()
	runID, err := st.Save(res)
	require.NoError(t, err)

	got, err := st.Result(runID)
	require.NoError(t, err)
	assert.Equal(t, res.Scene, got.Scene)
	assert.Equal(t, res.Force, got.Force)
	assert.Equal(t, res.Elapsed, got.Elapsed)
	assert.Equal(t, res.Samples, got.Samples)
	assert.Len(t, got.Collisions, 1)
	assert.Equal(t, res.Metrics, got.Metrics)
	assert.Empty(t, got.Bodies)

	_, err = st.Result("missing")
	assert.Error(t, err)
}
