package sampler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	contentionerrors "lockwatch/internal/contention/errors"
	"lockwatch/pkg/clock"
	"lockwatch/pkg/logger"
	"lockwatch/pkg/model"
	"lockwatch/pkg/sanitizer"
)

// clientBackend is the pg_stat_activity backend_type for real client
// sessions. Autovacuum, WAL writers and other internal workers hold locks
// too, but they are not contention an operator can act on.
const clientBackend = "client backend"

// TenantResolver maps a tenant scope onto the database name whose
// sessions the scope may observe. Returning ok=false rejects the tenant
// before any query runs. The empty scope is never passed here; it always
// means system-wide.
type TenantResolver func(tenant string) (database string, ok bool)

// IdentityResolver treats the tenant id itself as the database name.
func IdentityResolver(tenant string) (string, bool) {
	return tenant, true
}

// Sampler captures point-in-time snapshots of the resource manager's lock
// table. Read-only: it never writes through this connection.
type Sampler struct {
	db       *sql.DB
	resolver TenantResolver
	clk      clock.Clock
	log      *logger.Logger
	timeout  time.Duration
}

func New(db *sql.DB, resolver TenantResolver, clk clock.Clock, log *logger.Logger, timeout time.Duration) *Sampler {
	if resolver == nil {
		resolver = IdentityResolver
	}
	return &Sampler{
		db:       db,
		resolver: resolver,
		clk:      clk,
		log:      log,
		timeout:  timeout,
	}
}

// Snapshot reads the current lock table for the given tenant scope
// (empty = system-wide) and returns immutable LockRecords stamped with
// the pass generation. The whole read is bounded by the sample timeout; a
// slow or unreachable instance fails the pass instead of wedging the
// scheduler.
func (s *Sampler) Snapshot(ctx context.Context, tenant, passID string) ([]*model.LockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tenantID := model.SystemTenant
	query := lockSnapshotQuery
	var args []any
	if tenant != "" {
		database, ok := s.resolver(tenant)
		if !ok {
			return nil, fmt.Errorf("%w: %s", contentionerrors.ErrUnknownTenant, tenant)
		}
		tenantID = tenant
		query = lockSnapshotTenantQuery
		args = append(args, database)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contentionerrors.ErrSampleFailed, err)
	}
	defer rows.Close()

	capturedAt := s.clk.Now()
	var records []*model.LockRecord
	skipped := 0
	for rows.Next() {
		record, backendType, err := scanLockRow(rows, tenantID, passID, capturedAt)
		if err != nil {
			// One bad row never aborts the pass.
			s.log.Warn("Skipping unreadable lock row", "tenant", tenantID, "error", err)
			skipped++
			continue
		}
		if backendType != clientBackend {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", contentionerrors.ErrSampleFailed, err)
	}

	if skipped > 0 {
		s.log.Warn("Lock snapshot had unreadable rows", "tenant", tenantID, "skipped", skipped)
	}
	return records, nil
}

func scanLockRow(rows *sql.Rows, tenantID, passID string, capturedAt time.Time) (*model.LockRecord, string, error) {
	var (
		lockType    string
		relationOID string
		relName     string
		txID        string
		virtualXID  string
		modeName    string
		granted     bool
		pid         int
		waitStart   time.Time
		xactStart   time.Time
		queryText   string
		application string
		clientAddr  string
		backendType string
	)
	if err := rows.Scan(
		&lockType, &relationOID, &relName, &txID, &virtualXID,
		&modeName, &granted, &pid, &waitStart, &xactStart,
		&queryText, &application, &clientAddr, &backendType,
	); err != nil {
		return nil, "", err
	}

	acquiredAt := waitStart
	if granted {
		acquiredAt = xactStart
	}

	record := &model.LockRecord{
		TenantID:     tenantID,
		PassID:       passID,
		ResourceID:   resourceID(lockType, relationOID, txID, virtualXID),
		RelationName: relationName(lockType, relationOID, relName),
		LockType:     lockType,
		Mode:         model.ParseLockMode(modeName),
		Granted:      granted,
		SessionID:    pid,
		AcquiredAt:   acquiredAt,
		WaitDuration: capturedAt.Sub(acquiredAt),
		QueryText:    sanitizer.SanitizeQueryText(queryText),
		Application:  sanitizer.NormalizeApplication(application),
		ClientAddr:   sanitizer.NormalizeClientAddr(clientAddr),
		CapturedAt:   capturedAt,
	}
	if record.WaitDuration < 0 {
		record.WaitDuration = 0
	}
	return record, backendType, nil
}

// resourceID builds a stable identity for the locked resource from the
// lock type and whichever id column that type populates.
func resourceID(lockType, relationOID, txID, virtualXID string) string {
	switch {
	case relationOID != "":
		return lockType + ":" + relationOID
	case txID != "":
		return lockType + ":" + txID
	case virtualXID != "":
		return lockType + ":" + virtualXID
	default:
		return lockType
	}
}

// relationName falls back to "unknown" when a relation lock's pg_class
// row vanished between enumeration and lookup.
func relationName(lockType, relationOID, relName string) string {
	if relName != "" {
		return relName
	}
	if lockType == "relation" && relationOID != "" {
		return model.UnknownRelation
	}
	return ""
}
