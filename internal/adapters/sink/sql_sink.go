package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// SQLSink upserts every view row into a dashboard table so external chart
// tools can read the latest aggregates. Expected schema:
//
//	CREATE TABLE dashboard_views (
//	  view        TEXT             NOT NULL,
//	  group_key   TEXT             NOT NULL,
//	  value       DOUBLE PRECISION NOT NULL,
//	  members     INTEGER          NOT NULL,
//	  cycle       INTEGER          NOT NULL,
//	  computed_at TIMESTAMPTZ      NOT NULL,
//	  PRIMARY KEY (view, group_key)
//	);
type SQLSink struct {
	db        *sql.DB
	tableName string
}

func NewSQLSink(db *sql.DB, table string) *SQLSink {
	return &SQLSink{db: db, tableName: table}
}

func (s *SQLSink) Name() string { return "sql" }

// EnsureTable creates the view table when it does not exist yet.
func (s *SQLSink) EnsureTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  view        TEXT             NOT NULL,
  group_key   TEXT             NOT NULL,
  value       DOUBLE PRECISION NOT NULL,
  members     INTEGER          NOT NULL,
  cycle       INTEGER          NOT NULL,
  computed_at TIMESTAMPTZ      NOT NULL,
  PRIMARY KEY (view, group_key)
)`, s.tableName)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sql sink: create %s: %w", s.tableName, err)
	}
	return nil
}

func (s *SQLSink) Render(v domain.View) error {
	if len(v.Rows) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.tableName)
	b.WriteString(" (view, group_key, value, members, cycle, computed_at) VALUES ")

	args := make([]any, 0, len(v.Rows)*6)
	for i, r := range v.Rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4, len(args)+5, len(args)+6))
		args = append(args,
			v.Name,
			r.KeyString(),
			r.Value,
			r.Members,
			v.Cycle,
			v.ComputedAt,
		)
	}

	b.WriteString(" ON CONFLICT (view, group_key) DO UPDATE SET value = EXCLUDED.value, members = EXCLUDED.members, cycle = EXCLUDED.cycle, computed_at = EXCLUDED.computed_at")

	if _, err := s.db.Exec(b.String(), args...); err != nil {
		return fmt.Errorf("sql sink: upsert %s: %w", v.Name, err)
	}
	return nil
}

var _ ports.ViewSink = (*SQLSink)(nil)
