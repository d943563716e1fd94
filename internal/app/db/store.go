package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hvchat/internal/app/character"
)

// Account represents a stored account row.
type Account struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Store executes application queries against the connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps the given pool in a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// --- Accounts ---

// CreateAccount inserts a new account row and returns it.
func (s *Store) CreateAccount(ctx context.Context, username, passwordHash string) (Account, error) {
	var a Account
	err := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING username, password_hash, is_admin, created_at, last_login_at`,
		username, passwordHash,
	).Scan(&a.Username, &a.PasswordHash, &a.IsAdmin, &a.CreatedAt, &a.LastLoginAt)
	return a, err
}

// GetAccount fetches an account by username.
func (s *Store) GetAccount(ctx context.Context, username string) (Account, error) {
	var a Account
	err := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, is_admin, created_at, last_login_at
		 FROM accounts WHERE username = $1`,
		username,
	).Scan(&a.Username, &a.PasswordHash, &a.IsAdmin, &a.CreatedAt, &a.LastLoginAt)
	return a, err
}

// IsAdminAccount reports whether the named account holds moderator privilege.
// An unknown account is not a moderator.
func (s *Store) IsAdminAccount(ctx context.Context, username string) (bool, error) {
	var isAdmin bool
	err := s.pool.QueryRow(ctx,
		`SELECT is_admin FROM accounts WHERE username = $1`, username,
	).Scan(&isAdmin)
	if IsNotFound(err) {
		return false, nil
	}
	return isAdmin, err
}

// UpdateLastLogin stamps last_login_at with the current time.
func (s *Store) UpdateLastLogin(ctx context.Context, username string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE accounts SET last_login_at = now() WHERE username = $1`, username)
	return err
}

// --- Characters ---

// CreateCharacter inserts a new character row.
func (s *Store) CreateCharacter(ctx context.Context, c character.Character) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO characters (id, owner, name, color, species, status, portrait_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Owner, c.Name, c.Color, c.Species, c.Status, c.PortraitKey)
	return err
}

// GetCharacter fetches a character by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (character.Character, error) {
	var c character.Character
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner, name, color, species, status, portrait_key
		 FROM characters WHERE id = $1`, id,
	).Scan(&c.ID, &c.Owner, &c.Name, &c.Color, &c.Species, &c.Status, &c.PortraitKey)
	return c, err
}

// ListCharacters returns all characters owned by the given account.
func (s *Store) ListCharacters(ctx context.Context, owner string) ([]character.Character, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner, name, color, species, status, portrait_key
		 FROM characters WHERE owner = $1 ORDER BY created_at`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []character.Character
	for rows.Next() {
		var c character.Character
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Color, &c.Species, &c.Status, &c.PortraitKey); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCharacter updates the presentation fields of a character owned by c.Owner.
func (s *Store) UpdateCharacter(ctx context.Context, c character.Character) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE characters SET name = $3, color = $4, species = $5, status = $6
		 WHERE id = $1 AND owner = $2`,
		c.ID, c.Owner, c.Name, c.Color, c.Species, c.Status)
	return err
}

// SetPortraitKey records the storage key of an uploaded portrait.
func (s *Store) SetPortraitKey(ctx context.Context, id, owner, key string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE characters SET portrait_key = $3 WHERE id = $1 AND owner = $2`,
		id, owner, key)
	return err
}

// DeleteCharacter removes a character owned by the given account.
func (s *Store) DeleteCharacter(ctx context.Context, id, owner string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM characters WHERE id = $1 AND owner = $2`, id, owner)
	return err
}

// --- Bans ---

// InsertBan records a ban. Re-banning an already banned account is a no-op.
func (s *Store) InsertBan(ctx context.Context, username, bannedBy string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bans (username, banned_by) VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING`,
		username, bannedBy)
	return err
}

// DeleteBan lifts a ban.
func (s *Store) DeleteBan(ctx context.Context, username string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM bans WHERE username = $1`, username)
	return err
}

// ListBans returns every banned username.
func (s *Store) ListBans(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT username FROM bans`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// --- Channels ---

// UpsertChannel records a channel. Creating an existing channel is a no-op.
func (s *Store) UpsertChannel(ctx context.Context, name string, protected bool, createdBy string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO channels (name, protected, created_by) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING`,
		name, protected, createdBy)
	return err
}

// DeleteChannel removes a channel row. Protected channels are never deleted.
func (s *Store) DeleteChannel(ctx context.Context, name string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM channels WHERE name = $1 AND NOT protected`, name)
	return err
}

// ListChannels returns every stored channel name.
func (s *Store) ListChannels(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM channels ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
