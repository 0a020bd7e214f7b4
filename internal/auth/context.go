package auth

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"google.golang.org/grpc/metadata"
)

const (
	RoleSystem  = "system"
	RoleStaff   = "staff"
	RoleManager = "manager"
)

// Actor is the identity every stock mutation is attributed to.
type Actor struct {
	ID   string
	Role string
}

// SystemActor attributes mutations driven by background consumers.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the current actor, falling back to incoming gRPC
// metadata (x-user-id / x-user-role) when no interceptor has populated it.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok && a.ID != "" {
		return a, true
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Actor{}, false
	}
	var a Actor
	if val := md.Get("x-user-id"); len(val) > 0 {
		a.ID = val[0]
	}
	if val := md.Get("x-user-role"); len(val) > 0 {
		a.Role = val[0]
	}
	if a.ID == "" {
		return Actor{}, false
	}
	return a, true
}

// RequireActor is ActorFromContext with the Unauthenticated failure attached.
func RequireActor(ctx context.Context) (Actor, error) {
	a, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, apperr.Unauthenticated("missing actor identity")
	}
	return a, nil
}
