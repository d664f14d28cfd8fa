// Package operators manages the people allowed to trigger strikes: bcrypt
// password storage and the JWTs issued at login.
package operators

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/playpool/cuebot/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks a password against its stored hash
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// GetOperator retrieves an operator by username
func GetOperator(db *sqlx.DB, username string) (*models.Operator, error) {
	var op models.Operator
	err := db.Get(&op, `SELECT id, username, password_hash, is_active, created_at, last_login FROM operators WHERE username=$1`, username)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// UpsertOperator creates an operator or resets its password (used for seeding)
func UpsertOperator(db *sqlx.DB, username, plain string) error {
	hashed, err := HashPassword(plain)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO operators (username, password_hash, is_active, created_at)
		VALUES ($1, $2, TRUE, NOW())
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			is_active = TRUE
	`, username, hashed)
	return err
}

// Authenticate validates a username and password combination.
func Authenticate(db *sqlx.DB, username, password string) (*models.Operator, error) {
	op, err := GetOperator(db, username)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[AUTH] No operator found for username: %s", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !op.IsActive || !VerifyPassword(op.PasswordHash, password) {
		log.Printf("[AUTH] Login rejected for username: %s", username)
		return nil, ErrInvalidCredentials
	}

	if _, err := db.Exec(`UPDATE operators SET last_login = NOW() WHERE id = $1`, op.ID); err != nil {
		log.Printf("[AUTH] Failed to update last_login for %s: %v", username, err)
	}
	return op, nil
}

// Claims are the fields carried in an operator token.
type Claims struct {
	OperatorID int
	Username   string
	ExpiresAt  time.Time
}

// IssueToken signs an HS256 token for the operator.
func IssueToken(op *models.Operator, secret string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"operator_id": op.ID,
		"username":    op.Username,
		"exp":         jwt.NewNumericDate(exp).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken validates a token and returns its claims.
func ParseToken(token, secret string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	idf, ok := mc["operator_id"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	username, _ := mc["username"].(string)
	out := Claims{OperatorID: int(idf), Username: username}
	if expf, ok := mc["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(expf), 0)
	}
	return out, nil
}
