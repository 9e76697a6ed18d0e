package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims in a participant token.
type Claims struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and validates participant tokens with a shared secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an issuer from the configured secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// GenerateParticipantToken issues a short-lived token for one student
// sitting one assessment.
func (i *Issuer) GenerateParticipantToken(studentID, courseID string) (string, error) {
	claims := &Claims{
		StudentID: studentID,
		CourseID:  courseID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a participant token and returns its claims.
func (i *Issuer) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
