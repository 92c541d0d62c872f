// Package cli provides CLI commands for the patta application.
package cli

import (
	gocontext "context"
	"os"

	"github.com/example/patta/internal/ctxutil"
	"github.com/example/patta/internal/wire"
)

// EnvActor names the acting user when --as is not given.
const EnvActor = "PATTA_ACTOR"

// Global flags, bound on the root command by RegisterGlobalFlags.
var (
	globalActorID        string
	globalIdempotencyKey string
)

// currentApp returns the application the commands run against.
// Tests replace it with an in-memory build.
var currentApp = wire.Default

// DetectAndStoreActor falls back to $PATTA_ACTOR when --as was not given.
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	if globalActorID == "" {
		globalActorID = os.Getenv(EnvActor)
	}
}

// GetActorID returns the actor for the current CLI invocation.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() carrying the actor and the
// idempotency key of the current invocation.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		ctx = ctxutil.WithActorID(ctx, globalActorID)
	}
	if globalIdempotencyKey != "" {
		ctx = ctxutil.WithIdempotencyKey(ctx, globalIdempotencyKey)
	}
	return ctx
}
