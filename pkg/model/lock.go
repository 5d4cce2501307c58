package model

import "time"

// LockMode is a Postgres table-level lock mode. Ordering matters: higher
// values are stronger modes, and the conflict matrix below is indexed by it.
type LockMode int

const (
	AccessShare LockMode = iota
	RowShare
	RowExclusive
	ShareUpdateExclusive
	Share
	ShareRowExclusive
	Exclusive
	AccessExclusive
)

var lockModeNames = map[LockMode]string{
	AccessShare:          "AccessShareLock",
	RowShare:             "RowShareLock",
	RowExclusive:         "RowExclusiveLock",
	ShareUpdateExclusive: "ShareUpdateExclusiveLock",
	Share:                "ShareLock",
	ShareRowExclusive:    "ShareRowExclusiveLock",
	Exclusive:            "ExclusiveLock",
	AccessExclusive:      "AccessExclusiveLock",
}

var lockModeValues = func() map[string]LockMode {
	m := make(map[string]LockMode, len(lockModeNames))
	for mode, name := range lockModeNames {
		m[name] = mode
	}
	return m
}()

func (m LockMode) String() string {
	if name, ok := lockModeNames[m]; ok {
		return name
	}
	return "UnknownLock"
}

// ParseLockMode maps the mode string reported by pg_locks to a LockMode.
// Unrecognized modes are treated as AccessExclusive so they conflict with
// everything rather than being silently ignored.
func ParseLockMode(name string) LockMode {
	if mode, ok := lockModeValues[name]; ok {
		return mode
	}
	return AccessExclusive
}

// conflictMatrix mirrors the Postgres table-level lock conflict table.
// conflictMatrix[held][requested] == true means the two modes cannot be
// granted simultaneously on the same resource.
var conflictMatrix = [8][8]bool{
	AccessShare:          {AccessExclusive: true},
	RowShare:             {Exclusive: true, AccessExclusive: true},
	RowExclusive:         {Share: true, ShareRowExclusive: true, Exclusive: true, AccessExclusive: true},
	ShareUpdateExclusive: {ShareUpdateExclusive: true, Share: true, ShareRowExclusive: true, Exclusive: true, AccessExclusive: true},
	Share:                {RowExclusive: true, ShareUpdateExclusive: true, ShareRowExclusive: true, Exclusive: true, AccessExclusive: true},
	ShareRowExclusive:    {RowExclusive: true, ShareUpdateExclusive: true, Share: true, ShareRowExclusive: true, Exclusive: true, AccessExclusive: true},
	Exclusive:            {RowShare: true, RowExclusive: true, ShareUpdateExclusive: true, Share: true, ShareRowExclusive: true, Exclusive: true, AccessExclusive: true},
	AccessExclusive:      {AccessShare: true, RowShare: true, RowExclusive: true, ShareUpdateExclusive: true, Share: true, ShareRowExclusive: true, Exclusive: true, AccessExclusive: true},
}

// Conflicts reports whether a request for mode requested is blocked by a
// granted lock in mode held on the same resource.
func (m LockMode) Conflicts(requested LockMode) bool {
	if m < 0 || m > AccessExclusive || requested < 0 || requested > AccessExclusive {
		return true
	}
	return conflictMatrix[m][requested]
}

// ExclusiveLike reports whether the mode shuts out concurrent writers
// entirely. Used by the impact scorer for the mode severity bonus.
func (m LockMode) ExclusiveLike() bool {
	return m >= ShareRowExclusive
}

// SystemTenant tags records produced by a pass with no tenant filter.
const SystemTenant = "system"

// UnknownRelation is recorded when a relation vanishes between lock
// enumeration and name lookup.
const UnknownRelation = "unknown"

// LockRecord is one observed row of the resource manager's lock table,
// joined with its owning session. Immutable once captured; retention only
// ever sets ClosedAt.
type LockRecord struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID     string        `json:"tenant_id" bson:"tenant_id" validate:"required"`
	PassID       string        `json:"pass_id" bson:"pass_id" validate:"required,uuid4"`
	ResourceID   string        `json:"resource_id" bson:"resource_id" validate:"required"`
	RelationName string        `json:"relation_name" bson:"relation_name"`
	LockType     string        `json:"lock_type" bson:"lock_type" validate:"required"`
	Mode         LockMode      `json:"mode" bson:"mode"`
	Granted      bool          `json:"granted" bson:"granted"`
	SessionID    int           `json:"session_id" bson:"session_id" validate:"required,min=1"`
	AcquiredAt   time.Time     `json:"acquired_at" bson:"acquired_at"`
	WaitDuration time.Duration `json:"wait_duration" bson:"wait_duration"`
	QueryText    string        `json:"query_text" bson:"query_text"`
	Application  string        `json:"application" bson:"application"`
	ClientAddr   string        `json:"client_addr" bson:"client_addr"`
	ImpactScore  int           `json:"impact_score" bson:"impact_score" validate:"min=0,max=100"`
	CapturedAt   time.Time     `json:"captured_at" bson:"captured_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Close end-dates the record. Already-closed records keep their original
// close timestamp so retention stays idempotent.
func (r *LockRecord) Close(at time.Time) {
	if r.ClosedAt == nil {
		r.ClosedAt = &at
	}
}

// BlockingEdge is a waits-for relationship: the waiter session cannot
// proceed until the holder session releases its lock on the resource.
// Edges are recomputed every pass and never persisted on their own.
type BlockingEdge struct {
	WaiterSessionID int           `json:"waiter_session_id" bson:"waiter_session_id"`
	HolderSessionID int           `json:"holder_session_id" bson:"holder_session_id"`
	ResourceID      string        `json:"resource_id" bson:"resource_id"`
	RequestedMode   LockMode      `json:"requested_mode" bson:"requested_mode"`
	HeldMode        LockMode      `json:"held_mode" bson:"held_mode"`
	WaitDuration    time.Duration `json:"wait_duration" bson:"wait_duration"`
}
