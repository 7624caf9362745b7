package store

import (
	"context"
	"fmt"

	"marquee/internal/media"
)

// Template is a user-stored caption template for one category.
type Template struct {
	Name   string
	Body   string
	Active bool
}

// SaveTemplate stores or replaces a named template. The caller validates the
// body before saving.
func (s *Store) SaveTemplate(ctx context.Context, userID int64, category media.Category, name, body string) error {
	err := s.execRetry(ctx,
		`INSERT INTO templates (user_id, category, name, body, active, created_at)
         VALUES (?, ?, ?, ?, 0, ?)
         ON CONFLICT (user_id, category, name) DO UPDATE SET body = excluded.body`,
		userID, string(category), name, body, timestamp())
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// ListTemplates returns the user's templates for a category in name order.
func (s *Store) ListTemplates(ctx context.Context, userID int64, category media.Category) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, body, active FROM templates
         WHERE user_id = ? AND category = ? ORDER BY name`,
		userID, string(category))
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var (
			tpl    Template
			active int
		)
		if err := rows.Scan(&tpl.Name, &tpl.Body, &active); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		tpl.Active = active != 0
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// GetTemplate loads one named template. Returns nil without error when it
// does not exist.
func (s *Store) GetTemplate(ctx context.Context, userID int64, category media.Category, name string) (*Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, body, active FROM templates
         WHERE user_id = ? AND category = ? AND name = ?`,
		userID, string(category), name)

	var (
		tpl    Template
		active int
	)
	err := row.Scan(&tpl.Name, &tpl.Body, &active)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}
	tpl.Active = active != 0
	return &tpl, nil
}

// SetActiveTemplate marks one template active for a category, deactivating
// the rest. An empty name reverts the category to the built-in default.
func (s *Store) SetActiveTemplate(ctx context.Context, userID int64, category media.Category, name string) error {
	err := s.execRetry(ctx,
		`UPDATE templates SET active = 0 WHERE user_id = ? AND category = ?`,
		userID, string(category))
	if err != nil {
		return fmt.Errorf("deactivate templates: %w", err)
	}
	if name == "" {
		return nil
	}
	err = s.execRetry(ctx,
		`UPDATE templates SET active = 1 WHERE user_id = ? AND category = ? AND name = ?`,
		userID, string(category), name)
	if err != nil {
		return fmt.Errorf("activate template: %w", err)
	}
	return nil
}

// ActiveTemplateBody returns the body of the user's active template for a
// category, or ok=false when the built-in default applies.
func (s *Store) ActiveTemplateBody(ctx context.Context, userID int64, category media.Category) (string, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM templates
         WHERE user_id = ? AND category = ? AND active = 1`,
		userID, string(category)).Scan(&body)
	if isNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query active template: %w", err)
	}
	return body, true, nil
}

// DeleteTemplate removes a named template.
func (s *Store) DeleteTemplate(ctx context.Context, userID int64, category media.Category, name string) error {
	err := s.execRetry(ctx,
		`DELETE FROM templates WHERE user_id = ? AND category = ? AND name = ?`,
		userID, string(category), name)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
