package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/steamates/steamates/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := `
		INSERT INTO user (steam_id, username, avatar, profile_url, real_name)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, last_login_ts, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.SteamID,
		create.Username,
		create.Avatar,
		create.ProfileURL,
		create.RealName,
	).Scan(&create.ID, &create.LastLoginTs, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return create, nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	set, args := []string{}, []any{}
	if update.Username != nil {
		set, args = append(set, "username = ?"), append(args, *update.Username)
	}
	if update.Avatar != nil {
		set, args = append(set, "avatar = ?"), append(args, *update.Avatar)
	}
	if update.ProfileURL != nil {
		set, args = append(set, "profile_url = ?"), append(args, *update.ProfileURL)
	}
	if update.RealName != nil {
		set, args = append(set, "real_name = ?"), append(args, *update.RealName)
	}
	if update.LastLoginTs != nil {
		set, args = append(set, "last_login_ts = ?"), append(args, *update.LastLoginTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	user := &store.User{}
	stmt := `
		UPDATE user SET ` + strings.Join(set, ", ") + `
		WHERE id = ?
		RETURNING id, steam_id, username, avatar, profile_url, real_name, last_login_ts, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&user.ID,
		&user.SteamID,
		&user.Username,
		&user.Avatar,
		&user.ProfileURL,
		&user.RealName,
		&user.LastLoginTs,
		&user.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}
	return user, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.SteamID != nil {
		where, args = append(where, "steam_id = ?"), append(args, *find.SteamID)
	}

	query := `
		SELECT id, steam_id, username, avatar, profile_url, real_name, last_login_ts, created_ts
		FROM user
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	users := []*store.User{}
	for rows.Next() {
		user := &store.User{}
		if err := rows.Scan(
			&user.ID,
			&user.SteamID,
			&user.Username,
			&user.Avatar,
			&user.ProfileURL,
			&user.RealName,
			&user.LastLoginTs,
			&user.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
