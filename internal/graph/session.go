package graph

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Tomlord1122/tasklist-backend/internal/auth"
	"github.com/Tomlord1122/tasklist-backend/internal/domain"
	"github.com/Tomlord1122/tasklist-backend/internal/store"
)

type contextKey int

const userContextKey contextKey = iota

// WithUser attaches the resolved user (or nil for an anonymous session) to
// the request context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the session user, or nil when the session is
// anonymous.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// SessionResolver maps an inbound bearer token to a user record. It is
// invoked exactly once per incoming request.
type SessionResolver struct {
	store store.Store
	auth  *auth.Service
}

func NewSessionResolver(st store.Store, au *auth.Service) *SessionResolver {
	return &SessionResolver{store: st, auth: au}
}

// Resolve returns the user the token identifies, or nil when the token is
// missing, malformed, expired or does not match an existing user. It never
// fails: whether anonymity is acceptable is each operation's decision.
func (s *SessionResolver) Resolve(ctx context.Context, token string) *domain.User {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil
	}

	userID, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	var user domain.User
	if err := s.store.FindOne(ctx, store.CollectionUsers, bson.M{"_id": oid}, &user); err != nil {
		return nil
	}
	return &user
}
