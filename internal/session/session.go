// Package session holds the logged-in state: the opaque bearer token
// and the minimal user profile displayed next to it. The state lives in
// a small SQLite table keyed by backend host and is constructed once at
// startup, passed down explicitly, and cleared on logout. Nothing here
// validates the token; the payload is decoded only for display.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned when no session exists for the host.
var ErrNotLoggedIn = errors.New("not logged in")

// Schema creates the session table.
const Schema = `
CREATE TABLE IF NOT EXISTS Session (
	Host TEXT NOT NULL PRIMARY KEY,

	Token TEXT NOT NULL,

	UserID INTEGER NOT NULL,
	FirstName TEXT NOT NULL,
	LastName TEXT NOT NULL,
	Role TEXT NOT NULL
) STRICT;
`

// User is the slice of the JWT payload the client shows in headers.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Role      string
}

// Session is one logged-in backend.
type Session struct {
	Host  string
	Token string
	User  User
}

// Init creates the schema.
func Init(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("initialising session table: %w", err)
	}
	return nil
}

// Save records (or replaces) the session for its host.
func Save(ctx context.Context, db *sql.DB, s *Session) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO Session(Host, Token, UserID, FirstName, LastName, Role) VALUES (?, ?, ?, ?, ?, ?)`,
		s.Host, s.Token, s.User.ID, s.User.FirstName, s.User.LastName, s.User.Role)
	if err != nil {
		return fmt.Errorf("recording session in DB: %w", err)
	}
	return nil
}

// Load fetches the session for host, or ErrNotLoggedIn.
func Load(ctx context.Context, db *sql.DB, host string) (*Session, error) {
	row := db.QueryRowContext(ctx,
		`SELECT Token, UserID, FirstName, LastName, Role FROM Session WHERE Host = ?`, host)
	s := &Session{Host: host}
	err := row.Scan(&s.Token, &s.User.ID, &s.User.FirstName, &s.User.LastName, &s.User.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotLoggedIn
	} else if err != nil {
		return nil, fmt.Errorf("loading session from DB: %w", err)
	}
	return s, nil
}

// Clear forgets the session for host. Clearing an absent session is
// not an error.
func Clear(ctx context.Context, db *sql.DB, host string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM Session WHERE Host = ?`, host); err != nil {
		return fmt.Errorf("clearing session in DB: %w", err)
	}
	return nil
}

// UserFromToken extracts the display fields from a bearer token's
// payload without verifying the signature; the backend remains the only
// party that validates tokens.
func UserFromToken(token string) (User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, fmt.Errorf("decoding token payload: %w", err)
	}
	u := User{
		FirstName: stringClaim(claims, "firstName"),
		LastName:  stringClaim(claims, "lastName"),
		Role:      stringClaim(claims, "role"),
	}
	if id, ok := claims["id"].(float64); ok {
		u.ID = int64(id)
	}
	return u, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
