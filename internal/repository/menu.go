package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"admin/access/internal/domain"
	"admin/access/internal/tree"
)

// Schema creates the menus table. Rows reference their parent by id; sibling
// order follows sort_order, then id.
const Schema = `
CREATE TABLE IF NOT EXISTS menus (
	id         BIGSERIAL PRIMARY KEY,
	parent_id  BIGINT REFERENCES menus (id) ON DELETE CASCADE,
	name       TEXT NOT NULL DEFAULT '',
	path       TEXT NOT NULL,
	component  TEXT NOT NULL DEFAULT '',
	redirect   TEXT NOT NULL DEFAULT '',
	meta       JSONB NOT NULL DEFAULT '{}',
	sort_order INT NOT NULL DEFAULT 0
)`

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type MenuRepository interface {
	FetchMenus(ctx context.Context) ([]domain.MenuNode, error)
	EnsureSchema(ctx context.Context) error
}

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) MenuRepository {
	return &menuRepository{
		db: db,
	}
}

// MenuRow is one row of the menus table.
type MenuRow struct {
	ID        int64       `db:"id"`
	ParentID  *int64      `db:"parent_id"`
	Name      string      `db:"name"`
	Path      string      `db:"path"`
	Component string      `db:"component"`
	Redirect  string      `db:"redirect"`
	Meta      domain.Meta `db:"meta"`
	SortOrder int         `db:"sort_order"`
	Children  []MenuRow   `db:"-"`
}

func (r MenuRow) GetChildren() []MenuRow {
	return r.Children
}

func (r MenuRow) WithChildren(children []MenuRow) MenuRow {
	r.Children = children
	return r
}

func (r *menuRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create menus table: %w", err)
	}
	return nil
}

func (r *menuRepository) FetchMenus(ctx context.Context) ([]domain.MenuNode, error) {
	query := `
	SELECT id, parent_id, name, path, component, redirect, meta, sort_order
	FROM menus
	ORDER BY sort_order, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}

	menuRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[MenuRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan menus: %w", err)
	}

	return BuildMenuTree(menuRows), nil
}

// BuildMenuTree links flat menu rows into a menu tree. Rows whose parent is
// missing are promoted to the top level.
func BuildMenuTree(rows []MenuRow) []domain.MenuNode {
	if len(rows) == 0 {
		return nil
	}

	linked := tree.FromList(rows,
		func(r MenuRow) int64 { return r.ID },
		func(r MenuRow) int64 {
			if r.ParentID == nil {
				return 0
			}
			return *r.ParentID
		},
	)

	return tree.Transform(linked, func(r MenuRow, _ *domain.MenuNode) (domain.MenuNode, bool) {
		return domain.MenuNode{
			Name:      r.Name,
			Path:      r.Path,
			Component: r.Component,
			Redirect:  r.Redirect,
			Meta:      r.Meta,
		}, len(r.Children) > 0
	})
}
