package store

import (
	"context"
	"fmt"
	"time"
)

// User is a durable per-user record.
type User struct {
	ID         int64
	Username   string
	FirstName  string
	Banned     bool
	Premium    bool
	Watermark  string
	Channel    string
	Quality    string
	Audio      string
	TotalPosts int64
	CreatedAt  time.Time
	LastSeen   time.Time
}

// UpsertUser records that a user was seen, creating the row on first
// contact. It reports whether the user is new. The insert is a single
// conflict-tolerant statement, so concurrent first-contact events for the
// same user resolve to exactly one "new" report and no constraint error.
func (s *Store) UpsertUser(ctx context.Context, userID int64, username, firstName string) (bool, error) {
	now := timestamp()

	var isNew bool
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO users (user_id, username, first_name, created_at, last_seen)
             VALUES (?, ?, ?, ?, ?)`,
			userID, username, firstName, now, now)
		if err != nil {
			return err
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return err
		}
		isNew = inserted == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	if isNew {
		return true, nil
	}

	err = s.execRetry(ctx,
		`UPDATE users SET username = ?, first_name = ?, last_seen = ? WHERE user_id = ?`,
		username, firstName, now, userID)
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	return false, nil
}

// GetUser loads a user row. Returns nil without error when the user is
// unknown.
func (s *Store) GetUser(ctx context.Context, userID int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, first_name, banned, premium,
                watermark, channel, quality, audio, posts_total, created_at, last_seen
         FROM users WHERE user_id = ?`, userID)

	var (
		user                User
		banned, premium     int
		createdAt, lastSeen string
	)
	err := row.Scan(&user.ID, &user.Username, &user.FirstName, &banned, &premium,
		&user.Watermark, &user.Channel, &user.Quality, &user.Audio,
		&user.TotalPosts, &createdAt, &lastSeen)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Banned = banned != 0
	user.Premium = premium != 0
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	user.LastSeen, _ = time.Parse(time.RFC3339Nano, lastSeen)
	return &user, nil
}

// IsBanned reports whether a user is banned. Unknown users are not banned.
func (s *Store) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var banned int
	err := s.db.QueryRowContext(ctx,
		`SELECT banned FROM users WHERE user_id = ?`, userID).Scan(&banned)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query banned: %w", err)
	}
	return banned != 0, nil
}

// SetBanned flips a user's ban flag.
func (s *Store) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return s.setUserFlag(ctx, userID, "banned", banned)
}

// SetPremium flips a user's premium flag.
func (s *Store) SetPremium(ctx context.Context, userID int64, premium bool) error {
	return s.setUserFlag(ctx, userID, "premium", premium)
}

func (s *Store) setUserFlag(ctx context.Context, userID int64, column string, value bool) error {
	flag := 0
	if value {
		flag = 1
	}
	err := s.execRetry(ctx,
		fmt.Sprintf(`UPDATE users SET %s = ? WHERE user_id = ?`, column), flag, userID)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	return nil
}

// SetWatermark stores a user's watermark text. Empty clears it.
func (s *Store) SetWatermark(ctx context.Context, userID int64, watermark string) error {
	return s.setUserField(ctx, userID, "watermark", watermark)
}

// SetChannel stores the user's distribution target.
func (s *Store) SetChannel(ctx context.Context, userID int64, channel string) error {
	return s.setUserField(ctx, userID, "channel", channel)
}

// SetQuality stores the user's quality preference string.
func (s *Store) SetQuality(ctx context.Context, userID int64, quality string) error {
	return s.setUserField(ctx, userID, "quality", quality)
}

// SetAudio stores the user's audio preference string.
func (s *Store) SetAudio(ctx context.Context, userID int64, audio string) error {
	return s.setUserField(ctx, userID, "audio", audio)
}

func (s *Store) setUserField(ctx context.Context, userID int64, column, value string) error {
	err := s.execRetry(ctx,
		fmt.Sprintf(`UPDATE users SET %s = ? WHERE user_id = ?`, column), value, userID)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	return nil
}

// CanPostToday reports whether the user has daily quota left.
func (s *Store) CanPostToday(ctx context.Context, userID int64, freeLimit, premiumLimit int) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	limit := freeLimit
	if user != nil && user.Premium {
		limit = premiumLimit
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT count FROM daily_posts WHERE user_id = ? AND day = ?`,
		userID, today()).Scan(&count)
	if isNoRows(err) {
		return limit > 0, nil
	}
	if err != nil {
		return false, fmt.Errorf("query daily posts: %w", err)
	}
	return count < limit, nil
}

// IncrementPostCount bumps today's counter and the lifetime total.
func (s *Store) IncrementPostCount(ctx context.Context, userID int64) error {
	err := s.execRetry(ctx,
		`INSERT INTO daily_posts (user_id, day, count) VALUES (?, ?, 1)
         ON CONFLICT (user_id, day) DO UPDATE SET count = count + 1`,
		userID, today())
	if err != nil {
		return fmt.Errorf("increment daily posts: %w", err)
	}
	err = s.execRetry(ctx,
		`UPDATE users SET posts_total = posts_total + 1 WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("increment total posts: %w", err)
	}
	return nil
}

// PostsToday returns the user's post count for the current day.
func (s *Store) PostsToday(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM daily_posts WHERE user_id = ? AND day = ?`,
		userID, today()).Scan(&count)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query daily posts: %w", err)
	}
	return count, nil
}

// TotalUsers counts registered users.
func (s *Store) TotalUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// TotalPosts sums lifetime posts across all users.
func (s *Store) TotalPosts(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(posts_total), 0) FROM users`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum posts: %w", err)
	}
	return total, nil
}

// AllUserIDs lists every non-banned user, used for broadcasts.
func (s *Store) AllUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM users WHERE banned = 0 ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
