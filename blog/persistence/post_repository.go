package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/siteblog/blog/domain"
	"github.com/dfryer1193/siteblog/shared/db"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository using SQL database (SQLite)
type SQLitePostRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(conn *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db:  conn,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const postColumns = `id, title, content, category, broadcast, draft, created_at, updated_at`

const insertPostQuery = `
	INSERT INTO posts (title, content, category, broadcast, draft, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

const upsertPostQuery = `
	INSERT INTO posts (id, title, content, category, broadcast, draft, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		content = excluded.content,
		category = excluded.category,
		broadcast = excluded.broadcast,
		draft = excluded.draft,
		updated_at = excluded.updated_at,
		created_at = COALESCE(posts.created_at, excluded.created_at)
	RETURNING created_at
`

// SavePost inserts or updates a post. A post with a zero ID is inserted and
// receives the ID assigned by the database. created_at is fixed at insert:
// on update p.CreatedAt is replaced with the stored value.
func (r *SQLitePostRepository) SavePost(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now()
	}
	p.CreatedAt = p.CreatedAt.UTC().Truncate(time.Microsecond)
	p.UpdatedAt = p.UpdatedAt.UTC().Truncate(time.Microsecond)

	var updatedAt any
	if !p.UpdatedAt.IsZero() {
		updatedAt = p.UpdatedAt.UnixMicro()
	}

	executor := db.GetExecutor(ctx, r.db)

	if p.ID == 0 {
		res, err := executor.ExecContext(ctx, insertPostQuery,
			p.Title,
			p.Content,
			string(p.Category),
			boolToInt(p.Broadcast),
			boolToInt(p.Draft),
			p.CreatedAt.UnixMicro(),
			updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted post id: %w", err)
		}
		p.ID = id
		return nil
	}

	var storedCreatedAt int64
	err := executor.QueryRowContext(ctx, upsertPostQuery,
		p.ID,
		p.Title,
		p.Content,
		string(p.Category),
		boolToInt(p.Broadcast),
		boolToInt(p.Draft),
		p.CreatedAt.UnixMicro(),
		updatedAt,
	).Scan(&storedCreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}
	p.CreatedAt = time.UnixMicro(storedCreatedAt).UTC()

	return nil
}

// SavePosts saves every post in a single transaction. If the batch fails,
// posts that were new get their ID reset to zero.
func (r *SQLitePostRepository) SavePosts(ctx context.Context, posts []*domain.Post) error {
	var inserted []*domain.Post

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		for _, p := range posts {
			isNew := p != nil && p.ID == 0
			if err := r.SavePost(txCtx, p); err != nil {
				return err
			}
			if isNew {
				inserted = append(inserted, p)
			}
		}
		return nil
	})
	if err != nil {
		for _, p := range inserted {
			p.ID = 0
		}
		return err
	}

	return nil
}

const findPostQuery = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

// FindPost retrieves a single post by ID regardless of its status
func (r *SQLitePostRepository) FindPost(ctx context.Context, id int64) (*domain.Post, error) {
	var row postRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, findPostQuery, id).Scan(row.fields()...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return row.toDomain(), nil
}

// FindPosts retrieves the posts matching filter, ordered by creation time descending
func (r *SQLitePostRepository) FindPosts(ctx context.Context, filter domain.PostFilter, page domain.PageRequest) ([]*domain.Post, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + postColumns + ` FROM posts` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, page.Limit(), page.Offset())

	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var row postRow
		if err := rows.Scan(row.fields()...); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// CountPosts returns the number of posts matching filter
func (r *SQLitePostRepository) CountPosts(ctx context.Context, filter domain.PostFilter) (int64, error) {
	where, args := whereClause(filter)

	var count int64
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

const deletePostQuery = `DELETE FROM posts WHERE id = ?`

func (r *SQLitePostRepository) DeletePost(ctx context.Context, id int64) error {
	res, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted row count: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(id)
	}

	return nil
}

// whereClause renders filter as a SQL WHERE clause with positional arguments
func whereClause(filter domain.PostFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.PublishedOnly {
		conds = append(conds, "draft = 0")
	}
	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.BroadcastOnly {
		conds = append(conds, "broadcast = 1")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// postRow is a private struct used to scan database rows
type postRow struct {
	ID        int64         `db:"id"`
	Title     string        `db:"title"`
	Content   string        `db:"content"`
	Category  string        `db:"category"`
	Broadcast int64         `db:"broadcast"`
	Draft     int64         `db:"draft"`
	CreatedAt int64         `db:"created_at"`
	UpdatedAt sql.NullInt64 `db:"updated_at"`
}

// fields returns scan destinations in postColumns order
func (pr *postRow) fields() []any {
	return []any{
		&pr.ID,
		&pr.Title,
		&pr.Content,
		&pr.Category,
		&pr.Broadcast,
		&pr.Draft,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	}
}

func (pr *postRow) toDomain() *domain.Post {
	post := &domain.Post{
		ID:        pr.ID,
		Title:     pr.Title,
		Content:   pr.Content,
		Category:  domain.PostCategory(pr.Category),
		Broadcast: pr.Broadcast != 0,
		Draft:     pr.Draft != 0,
		CreatedAt: time.UnixMicro(pr.CreatedAt).UTC(),
	}

	if pr.UpdatedAt.Valid {
		post.UpdatedAt = time.UnixMicro(pr.UpdatedAt.Int64).UTC()
	}

	return post
}
