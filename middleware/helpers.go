package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID         = "user_id"
	jwtClaimRole           = "role"
	jwtClaimParticipantIDs = "participant_ids"
)

const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RolePlayer    = "player"
)

// Identity is the authenticated caller: a user, their role and the
// tournament participants (players or teams) they may act for.
type Identity struct {
	UserID         string
	Role           string
	ParticipantIDs []string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin || i.Role == RoleOrganizer
}

func identityFromClaims(claims jwt.MapClaims) (Identity, error) {
	var identity Identity

	switch v := claims[jwtClaimUserID].(type) {
	case string:
		identity.UserID = v
	case float64:
		if v != float64(int64(v)) {
			return Identity{}, fmt.Errorf("'%s' claim is not an integer: %f", jwtClaimUserID, v)
		}
		identity.UserID = strconv.FormatInt(int64(v), 10)
	case nil:
		return Identity{}, errMissingUserID
	default:
		return Identity{}, fmt.Errorf("invalid type for '%s' claim: %T", jwtClaimUserID, v)
	}
	if identity.UserID == "" {
		return Identity{}, errMissingUserID
	}

	role, _ := claims[jwtClaimRole].(string)
	switch role {
	case RoleAdmin, RoleOrganizer, RolePlayer:
		identity.Role = role
	case "":
		identity.Role = RolePlayer
	default:
		return Identity{}, fmt.Errorf("invalid role value in claim: %q", role)
	}

	if raw, ok := claims[jwtClaimParticipantIDs].([]interface{}); ok {
		for _, item := range raw {
			id, ok := item.(string)
			if !ok {
				return Identity{}, fmt.Errorf("invalid entry in '%s' claim: %T", jwtClaimParticipantIDs, item)
			}
			identity.ParticipantIDs = append(identity.ParticipantIDs, id)
		}
	}
	return identity, nil
}

// IssueToken signs a token for identity. Used by tests and local tooling;
// production tokens come from the identity provider.
func IssueToken(secret []byte, identity Identity, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		jwtClaimUserID: identity.UserID,
		jwtClaimRole:   identity.Role,
		"exp":          time.Now().Add(ttl).Unix(),
	}
	if len(identity.ParticipantIDs) > 0 {
		claims[jwtClaimParticipantIDs] = identity.ParticipantIDs
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
