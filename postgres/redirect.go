package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/store"
	"gorm.io/gorm/clause"
)

// maxRefAttempts bounds how many public refs are generated before giving up.
const maxRefAttempts = 3

var _ store.Store = (*RedirectStore)(nil)

type externalUser struct {
	ID         int64
	ExternalID string
	Name       string
}

func (externalUser) TableName() string { return "external_users" }

type redirectRow struct {
	ID          int64
	PublicRef   string
	Alias       string
	Destination string
	CreatedOn   time.Time
	CreatedByID int64
	CreatedBy   externalUser
}

func (redirectRow) TableName() string { return "redirects" }

func (r redirectRow) record() store.Record {
	return store.Record{
		ID:          r.ID,
		PublicRef:   r.PublicRef,
		Alias:       r.Alias,
		Destination: r.Destination,
		CreatedOn:   r.CreatedOn,
		CreatedBy:   store.User{ExternalID: r.CreatedBy.ExternalID, Name: r.CreatedBy.Name},
	}
}

// RedirectStore implements store.Store over the redirects table.
type RedirectStore struct {
	db *DB
}

// NewRedirectStore constructs a [*RedirectStore] querying db.
func NewRedirectStore(db *DB) *RedirectStore { return &RedirectStore{db: db} }

// Get retrieves the redirect whose public ref or alias equals ref.
func (rs *RedirectStore) Get(ctx context.Context, ref string) (store.Record, error) {
	row, err := rs.find(rs.db.WithContext(ctx), ref)
	if err != nil {
		return store.Record{}, err
	}

	return row.record(), nil
}

// Create inserts a redirect, recording by as its author.
func (rs *RedirectStore) Create(ctx context.Context, alias, destination string, by store.User) (store.Record, error) {
	var row redirectRow
	err := rs.db.WithContext(ctx).Transaction(func(tx *DB) error {
		user, err := upsertUser(tx, by)
		if err != nil {
			return err
		}

		exists, err := tx.Model(new(redirectRow)).Where("alias = ?", alias).Count()
		if err != nil {
			return err
		}
		if exists > 0 {
			return fmt.Errorf("%w: alias %q", golink.ErrExists, alias)
		}

		ref, err := newRef(tx)
		if err != nil {
			return err
		}

		row = redirectRow{
			PublicRef:   ref,
			Alias:       alias,
			Destination: destination,
			CreatedOn:   time.Now().UTC().Truncate(time.Microsecond),
			CreatedByID: user.ID,
		}
		if err := tx.Create(&row); err != nil {
			return err
		}

		row.CreatedBy = user
		return nil
	})
	if err != nil {
		return store.Record{}, err
	}

	return row.record(), nil
}

// Update replaces the destination and author of the redirect ref names.
func (rs *RedirectStore) Update(ctx context.Context, ref, destination string, by store.User) (store.Record, error) {
	var row redirectRow
	err := rs.db.WithContext(ctx).Transaction(func(tx *DB) error {
		found, err := rs.find(tx, ref)
		if err != nil {
			return err
		}

		user, err := upsertUser(tx, by)
		if err != nil {
			return err
		}

		err = tx.Model(&redirectRow{ID: found.ID}).Update(Updates{
			"destination":   destination,
			"created_by_id": user.ID,
		})
		if err != nil {
			return err
		}

		found.Destination = destination
		found.CreatedByID = user.ID
		found.CreatedBy = user
		row = found

		return nil
	})
	if err != nil {
		return store.Record{}, err
	}

	return row.record(), nil
}

// Delete removes the redirect ref names along with its usage.
func (rs *RedirectStore) Delete(ctx context.Context, ref string) (store.Record, error) {
	db := rs.db.WithContext(ctx)
	row, err := rs.find(db, ref)
	if err != nil {
		return store.Record{}, err
	}

	if err := db.Delete(&redirectRow{ID: row.ID}); err != nil {
		return store.Record{}, err
	}

	return row.record(), nil
}

// List retrieves the redirects in page, oldest first.
func (rs *RedirectStore) List(ctx context.Context, page store.Page) (store.List, error) {
	page = page.Normalize()
	db := rs.db.WithContext(ctx)

	total, err := db.Model(new(redirectRow)).Count()
	if err != nil {
		return store.List{}, err
	}

	var rows []redirectRow
	err = db.
		Preload("CreatedBy").
		Order("id ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&rows)
	if err != nil {
		return store.List{}, err
	}

	list := store.List{
		Records: make([]store.Record, 0, len(rows)),
		Total:   total,
		HasMore: page.HasMore(total),
	}
	for _, row := range rows {
		list.Records = append(list.Records, row.record())
	}

	return list, nil
}

// AddClick increments the usage of the redirect ref names.
func (rs *RedirectStore) AddClick(ctx context.Context, ref string) error {
	db := rs.db.WithContext(ctx)
	row, err := rs.find(db, ref)
	if err != nil {
		return err
	}

	return db.Exec(`
		INSERT INTO redirect_usages (redirect_id, clicks) VALUES (?, 1)
		ON CONFLICT (redirect_id) DO UPDATE SET clicks = redirect_usages.clicks + 1
	`, row.ID)
}

// Clicks returns the usage of the redirect ref names.
func (rs *RedirectStore) Clicks(ctx context.Context, ref string) (int64, error) {
	db := rs.db.WithContext(ctx)
	row, err := rs.find(db, ref)
	if err != nil {
		return 0, err
	}

	var clicks int64
	err = db.Raw(&clicks, `SELECT COALESCE(SUM(clicks), 0) FROM redirect_usages WHERE redirect_id = ?`, row.ID)
	if err != nil {
		return 0, err
	}

	return clicks, nil
}

func (rs *RedirectStore) find(db *DB, ref string) (redirectRow, error) {
	var row redirectRow
	err := db.
		Preload("CreatedBy").
		Where("public_ref = ?", ref).
		Or("alias = ?", ref).
		First(&row)
	if errors.Is(err, golink.ErrNotFound) {
		return redirectRow{}, fmt.Errorf("%w: redirect %q", golink.ErrNotFound, ref)
	}

	return row, err
}

func upsertUser(db *DB, by store.User) (externalUser, error) {
	if by.ExternalID == "" {
		return externalUser{}, fmt.Errorf("%w: user has no id", golink.ErrMissingData)
	}

	user := externalUser{ExternalID: by.ExternalID, Name: by.Name}
	err := db.DB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&user).Error
	if err != nil {
		return externalUser{}, fmt.Errorf("%w: saving user %q: %s", golink.ErrUnexpected, by.ExternalID, err)
	}

	return user, nil
}

// newRef generates a public ref no redirect uses yet.
func newRef(db *DB) (string, error) {
	for attempt := 0; attempt < maxRefAttempts; attempt++ {
		ref, err := store.NewPublicRef()
		if err != nil {
			return "", err
		}

		n, err := db.Model(new(redirectRow)).Where("public_ref = ?", ref).Count()
		if err != nil {
			return "", err
		}

		if n == 0 {
			return ref, nil
		}
	}

	return "", fmt.Errorf("%w: no unused public ref after %d attempts", golink.ErrUnexpected, maxRefAttempts)
}
