package sampler

// Lock catalog introspection queries. pg_locks carries one row per lock
// request (granted or waiting); joining pg_stat_activity attaches the
// owning session, and the left join against pg_class tolerates a relation
// vanishing between enumeration and name lookup.
const (
	lockSnapshotQuery = `
		SELECT
			l.locktype,
			COALESCE(l.relation::text, ''),
			COALESCE(c.relname, ''),
			COALESCE(l.transactionid::text, ''),
			COALESCE(l.virtualxid, ''),
			l.mode,
			l.granted,
			l.pid,
			COALESCE(l.waitstart, a.query_start, now()),
			COALESCE(a.xact_start, a.backend_start, now()),
			COALESCE(a.query, ''),
			COALESCE(a.application_name, ''),
			COALESCE(a.client_addr::text, ''),
			a.backend_type
		FROM pg_locks l
		JOIN pg_stat_activity a ON a.pid = l.pid
		LEFT JOIN pg_class c ON c.oid = l.relation
		WHERE l.pid IS NOT NULL
		  AND l.pid <> pg_backend_pid()
		ORDER BY l.pid, l.locktype, l.relation`

	lockSnapshotTenantQuery = `
		SELECT
			l.locktype,
			COALESCE(l.relation::text, ''),
			COALESCE(c.relname, ''),
			COALESCE(l.transactionid::text, ''),
			COALESCE(l.virtualxid, ''),
			l.mode,
			l.granted,
			l.pid,
			COALESCE(l.waitstart, a.query_start, now()),
			COALESCE(a.xact_start, a.backend_start, now()),
			COALESCE(a.query, ''),
			COALESCE(a.application_name, ''),
			COALESCE(a.client_addr::text, ''),
			a.backend_type
		FROM pg_locks l
		JOIN pg_stat_activity a ON a.pid = l.pid
		LEFT JOIN pg_class c ON c.oid = l.relation
		WHERE l.pid IS NOT NULL
		  AND l.pid <> pg_backend_pid()
		  AND a.datname = $1
		ORDER BY l.pid, l.locktype, l.relation`
)
