// ABOUTME: Activity log storage operations.
// ABOUTME: Records admin requests and queries them for the activity page.

package store

import (
	"strings"
	"time"
)

// ActivityLog is one admin request
type ActivityLog struct {
	ID           int64
	Timestamp    time.Time
	ResourceID   string
	Action       string
	Method       string
	Path         string
	StatusCode   int
	DurationMs   int
	Admin        string
	IPAddress    string
	UserAgent    string
	Error        string
	RequestBody  string
	ResponseBody string
}

// LogActivity inserts an activity entry
func (s *Store) LogActivity(entry *ActivityLog) error {
	_, err := s.db.Exec(`
		INSERT INTO activity_logs (resource_id, action, method, path, status_code, duration_ms, admin, ip_address, user_agent, error, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ResourceID, entry.Action, entry.Method, entry.Path, entry.StatusCode, entry.DurationMs,
		entry.Admin, entry.IPAddress, entry.UserAgent, entry.Error, entry.RequestBody, entry.ResponseBody)
	return err
}

// ActivityQuery filters activity entries
type ActivityQuery struct {
	Limit      int
	Offset     int
	ResourceID string
	Admin      string
	Method     string
	PathPrefix string
	ErrorsOnly bool
}

// ActivityStats are aggregates shown on the activity page
type ActivityStats struct {
	Total           int
	Today           int
	Errors          int
	AvgDurationMs   int
	UniqueResources int
	UniqueAdmins    int
}

// GetActivity returns entries newest first
func (s *Store) GetActivity(q ActivityQuery) ([]*ActivityLog, error) {
	query := `SELECT id, timestamp, COALESCE(resource_id, ''), COALESCE(action, ''), method, path,
	          COALESCE(status_code, 0), COALESCE(duration_ms, 0), COALESCE(admin, ''), COALESCE(ip_address, ''),
	          COALESCE(user_agent, ''), COALESCE(error, ''), COALESCE(request_body, ''), COALESCE(response_body, '')
	          FROM activity_logs WHERE 1=1`
	args := []any{}

	if q.ResourceID != "" {
		query += " AND resource_id = ?"
		args = append(args, q.ResourceID)
	}
	if q.Admin != "" {
		query += " AND admin = ?"
		args = append(args, q.Admin)
	}
	if q.Method != "" {
		query += " AND method = ?"
		args = append(args, q.Method)
	}
	if q.PathPrefix != "" {
		query += ` AND path LIKE ? ESCAPE '\'`
		args = append(args, escapeSQLLike(q.PathPrefix)+"%")
	}
	if q.ErrorsOnly {
		query += " AND status_code >= 400"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ActivityLog
	for rows.Next() {
		e := &ActivityLog{}
		var timestamp string
		if err := rows.Scan(&e.ID, &timestamp, &e.ResourceID, &e.Action, &e.Method, &e.Path,
			&e.StatusCode, &e.DurationMs, &e.Admin, &e.IPAddress, &e.UserAgent, &e.Error,
			&e.RequestBody, &e.ResponseBody); err != nil {
			return nil, err
		}
		e.Timestamp = parseTimestamp(timestamp)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetActivityStats returns aggregate statistics
func (s *Store) GetActivityStats() (*ActivityStats, error) {
	stats := &ActivityStats{}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN date(timestamp) = date('now') THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0),
		       CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER),
		       COUNT(DISTINCT NULLIF(resource_id, '')),
		       COUNT(DISTINCT NULLIF(admin, ''))
		FROM activity_logs
	`).Scan(&stats.Total, &stats.Today, &stats.Errors, &stats.AvgDurationMs, &stats.UniqueResources, &stats.UniqueAdmins)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetResourceActivityCount returns how many requests touched a resource since a given time
func (s *Store) GetResourceActivityCount(resourceID string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM activity_logs
		WHERE resource_id = ? AND timestamp >= ?
	`, resourceID, since.UTC().Format("2006-01-02 15:04:05")).Scan(&count)
	return count, err
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// escapeSQLLike escapes LIKE wildcards and the escape character itself
func escapeSQLLike(pattern string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(pattern)
}
