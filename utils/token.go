package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"collections-backend/models"
)

const tokenTTL = 24 * time.Hour

// GenerateToken issues an HS256 session token carrying the operator's
// identity and role.
func GenerateToken(secret []byte, user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("utils: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the identity claims.
func ParseToken(secret []byte, tokenString string) (userID uint, username string, role models.Role, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, "", "", fmt.Errorf("utils: invalid token: %w", err)
	}
	if !token.Valid {
		return 0, "", "", fmt.Errorf("utils: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", "", fmt.Errorf("utils: invalid token claims")
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", "", fmt.Errorf("utils: token missing user_id")
	}
	username, ok = claims["username"].(string)
	if !ok {
		return 0, "", "", fmt.Errorf("utils: token missing username")
	}
	roleStr, ok := claims["role"].(string)
	if !ok || !models.Role(roleStr).Valid() {
		return 0, "", "", fmt.Errorf("utils: token missing or invalid role")
	}

	return uint(idFloat), username, models.Role(roleStr), nil
}
