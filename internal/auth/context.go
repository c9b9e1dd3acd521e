package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/model"
)

// actorKey is the gin context key under which the acting user is stored.
const actorKey = "mesa.actor"

// Actor is the authenticated identity performing the current API call.
// It is read once from the verified token and treated as immutable input
// for the duration of the call.
type Actor struct {
	UserID   uint
	UserName string
}

// SetActor stores the acting user in the request context.
func SetActor(c *gin.Context, actor *Actor) {
	c.Set(actorKey, actor)
}

// CurrentActor extracts the acting user from the request context.
// Returns an unauthorized error when the request carried no valid token.
func CurrentActor(c *gin.Context) (*Actor, error) {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil, fmt.Errorf("%w: no acting user in request context", model.ErrUnauthorized)
	}
	actor, ok := value.(*Actor)
	if !ok || actor == nil {
		return nil, fmt.Errorf("%w: invalid acting user in request context", model.ErrUnauthorized)
	}
	return actor, nil
}
