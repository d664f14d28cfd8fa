// Package snapshot reads a board snapshot from the CSV files the vision and
// calibration steps leave in a directory.
//
// Every position file holds one point per row, x and y in the first two
// columns (further columns such as z are ignored):
//
//	cueball.csv    first row is the cue ball
//	childball.csv  target balls, numbered from 1 in row order
//	holes.csv      pockets (optional)
//	walls.csv      corners of the closed cushion polygon (optional)
//	ballcount.csv  single integer, number of valid childball rows (optional)
//
// Missing holes or walls fall back to the supplied table layout.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/playpool/cuebot/internal/planner"
)

const (
	CueBallFile   = "cueball.csv"
	TargetsFile   = "childball.csv"
	HolesFile     = "holes.csv"
	WallsFile     = "walls.csv"
	BallCountFile = "ballcount.csv"
)

var (
	ErrNoCueBall     = errors.New("no cue ball row")
	ErrCountMismatch = errors.New("ball count exceeds target rows")
)

// Loader builds snapshots from a CSV directory.
type Loader struct {
	BallRadius float64
	Table      planner.Table
}

// Load reads the snapshot in dir.
func (l Loader) Load(dir string) (planner.Snapshot, error) {
	cueRows, err := readPoints(filepath.Join(dir, CueBallFile))
	if err != nil {
		return planner.Snapshot{}, err
	}
	if len(cueRows) == 0 {
		return planner.Snapshot{}, fmt.Errorf("%s: %w", CueBallFile, ErrNoCueBall)
	}

	targetRows, err := readOptionalPoints(filepath.Join(dir, TargetsFile))
	if err != nil {
		return planner.Snapshot{}, err
	}

	// The detector does not rewrite childball.csv when it sees no balls,
	// so the count file wins over the row count.
	count, ok, err := readCount(filepath.Join(dir, BallCountFile))
	if err != nil {
		return planner.Snapshot{}, err
	}
	if ok {
		if count > len(targetRows) {
			return planner.Snapshot{}, fmt.Errorf("%d > %d: %w", count, len(targetRows), ErrCountMismatch)
		}
		targetRows = targetRows[:count]
	}

	snap := planner.Snapshot{
		CueBall: planner.Ball{ID: 0, Position: cueRows[0], Radius: l.BallRadius},
	}
	for i, p := range targetRows {
		snap.Targets = append(snap.Targets, planner.Ball{ID: i + 1, Position: p, Radius: l.BallRadius})
	}

	holeRows, err := readOptionalPoints(filepath.Join(dir, HolesFile))
	if err != nil {
		return planner.Snapshot{}, err
	}
	if len(holeRows) == 0 {
		snap.Holes = append(snap.Holes, l.Table.Holes...)
	} else {
		for i, p := range holeRows {
			snap.Holes = append(snap.Holes, planner.Hole{ID: i, Position: p})
		}
	}

	cornerRows, err := readOptionalPoints(filepath.Join(dir, WallsFile))
	if err != nil {
		return planner.Snapshot{}, err
	}
	if len(cornerRows) < 3 {
		snap.Walls = append(snap.Walls, l.Table.Walls...)
	} else {
		snap.Walls = planner.WallsFromPolygon(cornerRows)
	}

	return snap, nil
}

func readOptionalPoints(path string) ([]planner.Vec2, error) {
	points, err := readPoints(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return points, err
}

func readPoints(path string) ([]planner.Vec2, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := parsePoints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return points, nil
}

func parsePoints(r io.Reader) ([]planner.Vec2, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var points []planner.Vec2
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: need x,y", line)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: y: %w", line, err)
		}
		points = append(points, planner.NewVec2(x, y))
	}
	return points, nil
}

func readCount(path string) (int, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	field := strings.TrimSpace(strings.SplitN(string(data), ",", 2)[0])
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("%s: bad count %q", BallCountFile, field)
	}
	return n, true, nil
}
