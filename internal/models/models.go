package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Operator is a person allowed to trigger strikes.
type Operator struct {
	ID           int          `db:"id" json:"id"`
	Username     string       `db:"username" json:"username"`
	PasswordHash string       `db:"password_hash" json:"-"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	LastLogin    sql.NullTime `db:"last_login" json:"last_login,omitempty"`
}

// Cycle outcomes
const (
	OutcomePlanned    = "planned"
	OutcomeNoShot     = "no_shot"
	OutcomeRejected   = "rejected"
	OutcomeExecuted   = "executed"
	OutcomeExecFailed = "execution_failed"
)

// PlanningCycle is one row of the shot log.
type PlanningCycle struct {
	ID                  int64          `db:"id" json:"id"`
	Source              string         `db:"source" json:"source"`
	Outcome             string         `db:"outcome" json:"outcome"`
	ShotKind            *string        `db:"shot_kind" json:"shot_kind,omitempty"`
	WallID              *int64         `db:"wall_id" json:"wall_id,omitempty"`
	TargetBall          *int64         `db:"target_ball" json:"target_ball,omitempty"`
	TargetHole          *int64         `db:"target_hole" json:"target_hole,omitempty"`
	TotalDistance       *float64       `db:"total_distance" json:"total_distance,omitempty"`
	PoseX               *float64       `db:"pose_x" json:"pose_x,omitempty"`
	PoseY               *float64       `db:"pose_y" json:"pose_y,omitempty"`
	PoseYaw             *float64       `db:"pose_yaw" json:"pose_yaw,omitempty"`
	DirectCandidates    int            `db:"direct_candidates" json:"direct_candidates"`
	ReflectedCandidates int            `db:"reflected_candidates" json:"reflected_candidates"`
	StrikeLevel         *string        `db:"strike_level" json:"strike_level,omitempty"`
	Error               *string        `db:"error" json:"error,omitempty"`
	Snapshot            types.JSONText `db:"snapshot" json:"snapshot"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
}
