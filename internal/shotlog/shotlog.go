// Package shotlog keeps the audit trail of planning cycles: one Postgres row
// per cycle, an event on the shot_events channel for live dashboards and the
// most recent plan cached in Redis. Nothing here is read back by the planner.
package shotlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/playpool/cuebot/internal/models"
	"github.com/playpool/cuebot/internal/planner"
	"github.com/playpool/cuebot/internal/strike"
	"github.com/redis/go-redis/v9"
)

const (
	EventsChannel = "shot_events"
	LastPlanKey   = "cuebot:last_plan"
	lastPlanTTL   = 24 * time.Hour
)

// Entry is everything known about one cycle.
type Entry struct {
	Source    string
	Snapshot  planner.Snapshot
	Plan      planner.Plan
	PlanErr   error
	Strike    *strike.Report
	StrikeErr error
}

// Outcome classifies the entry.
func (e Entry) Outcome() string {
	switch {
	case errors.Is(e.PlanErr, planner.ErrNoFeasibleShot):
		return models.OutcomeNoShot
	case e.PlanErr != nil:
		return models.OutcomeRejected
	case e.StrikeErr != nil:
		return models.OutcomeExecFailed
	case e.Strike != nil:
		return models.OutcomeExecuted
	default:
		return models.OutcomePlanned
	}
}

// Event is the payload published on EventsChannel.
type Event struct {
	Type      string         `json:"type"`
	CycleID   int64          `json:"cycle_id,omitempty"`
	Source    string         `json:"source"`
	Plan      *planner.Plan  `json:"plan,omitempty"`
	Strike    *strike.Report `json:"strike,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent builds the feed event for an entry.
func NewEvent(e Entry, cycleID int64) Event {
	ev := Event{
		Type:      e.Outcome(),
		CycleID:   cycleID,
		Source:    e.Source,
		Strike:    e.Strike,
		Timestamp: time.Now().UTC(),
	}
	if e.PlanErr == nil {
		plan := e.Plan
		ev.Plan = &plan
	}
	if err := firstErr(e.PlanErr, e.StrikeErr); err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// NewCycle flattens an entry into a shot log row.
func NewCycle(e Entry) (models.PlanningCycle, error) {
	snap, err := json.Marshal(e.Snapshot)
	if err != nil {
		return models.PlanningCycle{}, fmt.Errorf("encode snapshot: %w", err)
	}

	row := models.PlanningCycle{
		Source:              e.Source,
		Outcome:             e.Outcome(),
		DirectCandidates:    e.Plan.Direct,
		ReflectedCandidates: e.Plan.Reflected,
		Snapshot:            types.JSONText(snap),
	}

	if e.PlanErr == nil {
		shot := e.Plan.Shot
		kind := "direct"
		if w, ok := shot.Kind().Wall(); ok {
			kind = "reflected"
			row.WallID = ptr(int64(w.ID))
		}
		row.ShotKind = &kind
		row.TargetBall = ptr(int64(shot.Target().ID))
		row.TargetHole = ptr(int64(shot.Hole().ID))
		row.TotalDistance = ptr(shot.TotalDistance())
		row.PoseX = ptr(e.Plan.Aim.Pose.X)
		row.PoseY = ptr(e.Plan.Aim.Pose.Y)
		row.PoseYaw = ptr(e.Plan.Aim.Pose.Yaw)
	}
	if e.Strike != nil && e.Strike.Level.Name != "" {
		row.StrikeLevel = ptr(e.Strike.Level.Name)
	}
	if err := firstErr(e.PlanErr, e.StrikeErr); err != nil {
		row.Error = ptr(err.Error())
	}
	return row, nil
}

// Recorder writes entries to whichever stores are configured. Either store
// may be nil.
type Recorder struct {
	db  *sqlx.DB
	rdb *redis.Client
}

func NewRecorder(db *sqlx.DB, rdb *redis.Client) *Recorder {
	return &Recorder{db: db, rdb: rdb}
}

const insertCycle = `
	INSERT INTO planning_cycles (
		source, outcome, shot_kind, wall_id, target_ball, target_hole, total_distance,
		pose_x, pose_y, pose_yaw, direct_candidates, reflected_candidates,
		strike_level, error, snapshot
	) VALUES (
		:source, :outcome, :shot_kind, :wall_id, :target_ball, :target_hole, :total_distance,
		:pose_x, :pose_y, :pose_yaw, :direct_candidates, :reflected_candidates,
		:strike_level, :error, :snapshot
	) RETURNING id`

// Record stores the entry and publishes its event. Store failures are
// logged and returned but never block the next store.
func (r *Recorder) Record(ctx context.Context, e Entry) (int64, error) {
	var id int64
	var errs []error

	if r != nil && r.db != nil {
		row, err := NewCycle(e)
		if err == nil {
			id, err = r.insert(ctx, row)
		}
		if err != nil {
			log.Printf("[SHOTLOG] insert failed: %v", err)
			errs = append(errs, err)
		}
	}

	if r != nil && r.rdb != nil {
		ev := NewEvent(e, id)
		b, err := json.Marshal(ev)
		if err != nil {
			errs = append(errs, err)
		} else {
			if n, err := r.rdb.Publish(ctx, EventsChannel, b).Result(); err != nil {
				log.Printf("[SHOTLOG] publish failed: %v", err)
				errs = append(errs, err)
			} else {
				log.Printf("[SHOTLOG] published %s cycle=%d subscribers=%d", ev.Type, id, n)
			}
			if ev.Plan != nil {
				if err := r.rdb.Set(ctx, LastPlanKey, b, lastPlanTTL).Err(); err != nil {
					log.Printf("[SHOTLOG] cache last plan failed: %v", err)
					errs = append(errs, err)
				}
			}
		}
	}

	return id, errors.Join(errs...)
}

func (r *Recorder) insert(ctx context.Context, row models.PlanningCycle) (int64, error) {
	rows, err := r.db.NamedQueryContext(ctx, insertCycle, row)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, rows.Err()
}

// Recent returns the newest cycles first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]models.PlanningCycle, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	switch {
	case limit <= 0:
		limit = 50
	case limit > 500:
		limit = 500
	}
	var out []models.PlanningCycle
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM planning_cycles ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	return out, err
}

// LastPlan returns the cached event of the most recent successful plan.
func (r *Recorder) LastPlan(ctx context.Context) (json.RawMessage, bool, error) {
	if r == nil || r.rdb == nil {
		return nil, false, nil
	}
	b, err := r.rdb.Get(ctx, LastPlanKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(b), true, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
