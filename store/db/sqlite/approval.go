package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/oivmap/oivmap/store"
)

func (d *DB) CreateApproval(ctx context.Context, create *store.Approval) (*store.Approval, error) {
	fields := []string{
		"entity_type", "entity_id", "status", "comment",
		"approver_id", "approver_name", "approver_org_id",
	}
	placeholderValues := []any{
		create.EntityType, create.EntityID, create.Status.String(), create.Comment,
		create.ApproverID, create.ApproverName, create.ApproverOrgID,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO approval (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create approval: %w", err)
	}

	return create, nil
}

func (d *DB) ListApprovals(ctx context.Context, find *store.FindApproval) ([]*store.Approval, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.EntityType; v != nil {
		where, args = append(where, "approval.entity_type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.EntityID; v != nil {
		where, args = append(where, "approval.entity_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ApproverID; v != nil {
		where, args = append(where, "approval.approver_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Insertion order, first-match lookup depends on it.
	query := `
		SELECT
			id, created_ts, entity_type, entity_id, status, comment,
			approver_id, approver_name, approver_org_id
		FROM approval
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY approval.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Approval, 0)
	for rows.Next() {
		var approval store.Approval
		var status string
		if err := rows.Scan(
			&approval.ID,
			&approval.CreatedTs,
			&approval.EntityType,
			&approval.EntityID,
			&status,
			&approval.Comment,
			&approval.ApproverID,
			&approval.ApproverName,
			&approval.ApproverOrgID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approval.Status = store.ApprovalStatus(status)
		list = append(list, &approval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approvals: %w", err)
	}

	return list, nil
}
