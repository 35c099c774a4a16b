package i

import "github.com/gin-gonic/gin"

// Controller contributes routes to the versioned API group. Protected routes run behind
// the operator authorization middleware.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}
