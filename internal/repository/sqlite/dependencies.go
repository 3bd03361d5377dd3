package sqlite

import (
	"context"

	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/models"
)

// AddDependency records that taskID cannot start before dependencyID ends.
// Owned by the source task: deleting either task cascades the edge away
// per the schema's ON DELETE CASCADE on both columns.
func (s *Store) AddDependency(ctx context.Context, d models.TaskDependency) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_dependencies (task_id, dependency_id) VALUES (?, ?)`,
		d.TaskID, d.DependencyID)
	if err != nil {
		return cerrors.Wrap(cerrors.KindRepositoryError, "add_dependency", err)
	}
	return nil
}
