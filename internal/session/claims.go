package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"classpick/internal/model"
	"classpick/pkg/apierror"
)

var parser = jwt.NewParser()

// Decode reads the claims embedded in token. The signature and the expiry are not checked:
// the server verifies both, and callers compare ExpiresAt with the current time themselves.
func Decode(token string) (model.TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.TokenClaims{}, apierror.MalformedToken(errors.New("empty token"))
	}

	claimsMap := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claimsMap); err != nil {
		return model.TokenClaims{}, apierror.MalformedToken(err)
	}

	claims := model.TokenClaims{}
	claims.UserID = stringClaim(claimsMap, "sub", "id", "userId")
	claims.Username = stringClaim(claimsMap, "username")
	claims.Email = stringClaim(claimsMap, "email")
	claims.Class = stringClaim(claimsMap, "class")
	claims.Candidate = boolClaim(claimsMap, "candidate")
	claims.Voted = boolClaim(claimsMap, "voted", "hasVoted")

	exp, err := claimsMap.GetExpirationTime()
	if err != nil {
		return model.TokenClaims{}, apierror.MalformedToken(fmt.Errorf("exp: %w", err))
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	iat, err := claimsMap.GetIssuedAt()
	if err != nil {
		return model.TokenClaims{}, apierror.MalformedToken(fmt.Errorf("iat: %w", err))
	}
	if iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}

	return ""
}

func boolClaim(claims jwt.MapClaims, keys ...string) bool {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case bool:
			return v
		case string:
			parsed, err := strconv.ParseBool(v)
			if err == nil {
				return parsed
			}
		case float64:
			return v != 0
		}
	}

	return false
}
