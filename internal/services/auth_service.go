package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"brickmart/internal/models"
	"brickmart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and the session token ledger.
//
// The ledger is advisory for validation: a token whose signature verifies is
// accepted even when its session row is missing or the lookup fails, so a
// degraded secondary store never locks everyone out. A row found blacklisted
// always rejects the token.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
}

// sessionWriteRetries is how many times a login retries persisting the
// session row before giving up and returning the signed token anyway.
const sessionWriteRetries = 3

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour, // Token valid for 24 hours
	}
}

// HashToken returns the hex SHA-256 of a signed token, the session ledger key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RegisterUser registers a new user, hashes their password, and saves them to
// the database. The role is always forced to the regular user role.
func (s *AuthService) RegisterUser(user *models.User) error {
	// Check if username or email already exists
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username '%s' already taken", user.Username)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("email '%s' already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password
	user.Role = models.RoleUser

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user by email and returns a signed JWT plus the
// user record. The session row is installed as the user's single active one;
// if persisting it keeps failing the token is still returned, since signature
// verification alone can validate it.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// It's good practice not to reveal if the email exists or not for security
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	expiresAt := time.Now().Add(s.tokenDurat)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
		// iat has second resolution; jti keeps back-to-back logins from
		// signing byte-identical tokens whose hash may already be blacklisted.
		"jti": uuid.New().String(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.Session{
		TokenHash: HashToken(tokenString),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	var sessionErr error
	for attempt := 1; attempt <= sessionWriteRetries; attempt++ {
		if sessionErr = s.sessionRepo.ReplaceForUser(session); sessionErr == nil {
			break
		}
		log.Printf("Session write attempt %d for user %s failed: %v", attempt, user.ID, sessionErr)
	}
	if sessionErr != nil {
		// The signed token still verifies by signature alone.
		log.Printf("Giving up persisting session for user %s; returning token anyway", user.ID)
	}

	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if
// valid. A missing session row or a ledger lookup failure does not reject the
// token; a blacklisted row does.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	session, err := s.sessionRepo.GetByHash(HashToken(tokenString))
	if err != nil {
		// Signature already verified; the ledger is advisory here.
		log.Printf("Session lookup failed, accepting token on signature alone: %v", err)
		return claims, nil
	}
	if session.Blacklisted {
		return nil, fmt.Errorf("invalid token: session revoked")
	}

	return claims, nil
}

// RevokeToken blacklists the token's session row on logout. When the row was
// never persisted, one is synthesized from the decoded claims so the token
// stays revoked for the rest of its lifetime.
func (s *AuthService) RevokeToken(tokenString string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return fmt.Errorf("cannot revoke: %w", err)
	}

	userID, _ := claims["user_id"].(string)
	expiresAt := time.Now().Add(s.tokenDurat)
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}

	session := &models.Session{
		TokenHash: HashToken(tokenString),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.sessionRepo.Blacklist(session); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// SweepExpiredSessions deletes session rows past their expiry. Run once at
// startup and then on a fixed interval.
func (s *AuthService) SweepExpiredSessions() (int64, error) {
	removed, err := s.sessionRepo.DeleteExpired(time.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("Session sweep removed %d expired rows", removed)
	}
	return removed, nil
}
