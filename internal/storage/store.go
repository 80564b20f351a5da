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

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/metrics"
)

// Store keeps one directory per headless run. Records are diagnostics
// output; a run cannot be resumed from them.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	FrameDt    float64            `json:"frame_dt"`
	Frames     int                `json:"frames"`
	Integrator string             `json:"integrator"`
	Force      string             `json:"force"`
	Bodies     int                `json:"bodies"`
	Collisions int                `json:"collisions"`
	Elapsed    string             `json:"elapsed"`
	Metrics    map[string]float64 `json:"metrics"`
	Energy     metrics.Summary    `json:"energy"`
}

var (
	energyHeader    = []string{"frame", "time", "bodies", "particles", "kinetic", "potential", "total", "momentum"}
	collisionHeader = []string{"frame", "time", "type", "a", "b", "mass", "impact", "x", "y", "z", "supernova", "remnant"}
)

func (s *Store) Save(res *experiment.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%s_%d", res.Scene, res.Integrator, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      res.Scene,
		Timestamp:  now,
		Seed:       res.Seed,
		FrameDt:    res.FrameDt,
		Frames:     res.Frames,
		Integrator: res.Integrator,
		Force:      res.Force,
		Bodies:     len(res.Bodies),
		Collisions: len(res.Collisions),
		Elapsed:    res.Elapsed.String(),
		Metrics:    res.Metrics,
		Energy:     metrics.Summarize(res.Totals()),
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(res.Samples))
	for _, sm := range res.Samples {
		rows = append(rows, []string{
			strconv.Itoa(sm.Frame),
			formatFloat(sm.Time),
			strconv.Itoa(sm.Bodies),
			strconv.Itoa(sm.Particles),
			formatFloat(sm.Kinetic),
			formatFloat(sm.Potential),
			formatFloat(sm.Total),
			formatFloat(sm.Momentum),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "energy.csv"), energyHeader, rows); err != nil {
		return "", err
	}

	rows = rows[:0]
	for _, c := range res.Collisions {
		rows = append(rows, []string{
			strconv.Itoa(c.Frame),
			formatFloat(c.Time),
			c.Type,
			c.A,
			c.B,
			formatFloat(c.Mass),
			formatFloat(c.Impact),
			formatFloat(c.Position.X),
			formatFloat(c.Position.Y),
			formatFloat(c.Position.Z),
			strconv.FormatBool(c.Supernova),
			c.Remnant,
		})
	}
	if err := writeCSV(filepath.Join(runDir, "collisions.csv"), collisionHeader, rows); err != nil {
		return "", err
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first. Directories without a
// valid metadata.json are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.After(runs[j].Timestamp)
		}
		return runs[i].ID > runs[j].ID
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) readCSV(runID, name string, header []string) ([][]string, error) {
	path := filepath.Join(s.baseDir, runID, name)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// LoadEnergy reads back the sampled energy series of a run.
func (s *Store) LoadEnergy(runID string) ([]experiment.Sample, error) {
	records, err := s.readCSV(runID, "energy.csv", energyHeader)
	if err != nil {
		return nil, err
	}

	out := make([]experiment.Sample, 0, len(records))
	for i, rec := range records {
		var p parser
		sm := experiment.Sample{
			Frame:     p.atoi(rec[0]),
			Time:      p.parseFloat(rec[1]),
			Bodies:    p.atoi(rec[2]),
			Particles: p.atoi(rec[3]),
			Kinetic:   p.parseFloat(rec[4]),
			Potential: p.parseFloat(rec[5]),
			Total:     p.parseFloat(rec[6]),
			Momentum:  p.parseFloat(rec[7]),
		}
		if p.err != nil {
			return nil, fmt.Errorf("energy.csv row %d: %w", i+1, p.err)
		}
		out = append(out, sm)
	}
	return out, nil
}

// LoadCollisions reads back the collision log of a run. Product names are
// not stored.
func (s *Store) LoadCollisions(runID string) ([]experiment.CollisionRecord, error) {
	records, err := s.readCSV(runID, "collisions.csv", collisionHeader)
	if err != nil {
		return nil, err
	}

	out := make([]experiment.CollisionRecord, 0, len(records))
	for i, rec := range records {
		var p parser
		c := experiment.CollisionRecord{
			Frame:     p.atoi(rec[0]),
			Time:      p.parseFloat(rec[1]),
			Type:      rec[2],
			A:         rec[3],
			B:         rec[4],
			Mass:      p.parseFloat(rec[5]),
			Impact:    p.parseFloat(rec[6]),
			Position:  dynamo.V(p.parseFloat(rec[7]), p.parseFloat(rec[8]), p.parseFloat(rec[9])),
			Supernova: p.parseBool(rec[10]),
			Remnant:   rec[11],
		}
		if p.err != nil {
			return nil, fmt.Errorf("collisions.csv row %d: %w", i+1, p.err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Result rebuilds the stored part of a run: its settings, metrics,
// energy series and collision log. Final body states are not stored.
func (s *Store) Result(runID string) (*experiment.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadEnergy(runID)
	if err != nil {
		return nil, err
	}
	collisions, err := s.LoadCollisions(runID)
	if err != nil {
		return nil, err
	}
	elapsed, err := time.ParseDuration(meta.Elapsed)
	if err != nil {
		return nil, fmt.Errorf("metadata elapsed: %w", err)
	}

	return &experiment.Result{
		Scene:      meta.Scene,
		Integrator: meta.Integrator,
		Force:      meta.Force,
		Seed:       meta.Seed,
		Frames:     meta.Frames,
		FrameDt:    meta.FrameDt,
		Elapsed:    elapsed,
		Samples:    samples,
		Collisions: collisions,
		Metrics:    meta.Metrics,
	}, nil
}

// parser keeps the first conversion error of a row.
type parser struct{ err error }

func (p *parser) parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *parser) parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
