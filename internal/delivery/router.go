package delivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

// Pinger is satisfied by *sql.DB. A nil Pinger reports healthy.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Catalog Service API</title>
    <style>
        body { font-family: Helvetica, Arial, sans-serif; line-height: 1.6; padding: 20px; background-color: #f9f9f9; color: #333; }
        h1, h2 { border-bottom: 1px solid #ccc; padding-bottom: 5px; }
        ul { list-style: none; padding-left: 0; }
        li { margin-bottom: 10px; background-color: #fff; padding: 8px; border: 1px solid #eee; border-radius: 4px; }
        code { background-color: #e8e8e8; padding: 3px 6px; border-radius: 3px; }
        .method { font-weight: bold; display: inline-block; width: 60px; }
    </style>
</head>
<body>
    <h1>Catalog Service API</h1>
    <p>Request bodies are form-encoded. Responses are JSON.</p>

    <h2>Categories</h2>
    <ul>
        <li><span class="method">POST</span> <code>/categories</code> name, description?</li>
        <li><span class="method">GET</span> <code><a href="/categories">/categories</a></code></li>
        <li><span class="method">GET</span> <code>/categories/{id}</code></li>
        <li><span class="method">GET</span> <code>/categories/{id}/products</code></li>
        <li><span class="method">PATCH</span> <code>/categories/{id}</code> name?, description?</li>
        <li><span class="method">DELETE</span> <code>/categories/{id}</code></li>
    </ul>

    <h2>Products</h2>
    <ul>
        <li><span class="method">POST</span> <code>/products</code> name, price, category_id, description?, stock?, image_url?</li>
        <li><span class="method">GET</span> <code><a href="/products">/products</a></code></li>
        <li><span class="method">GET</span> <code>/products/{id}</code></li>
        <li><span class="method">PATCH</span> <code>/products/{id}</code> name?, price?, stock?, description?, image_url?</li>
        <li><span class="method">DELETE</span> <code>/products/{id}</code></li>
    </ul>

    <h2>Orders</h2>
    <ul>
        <li><span class="method">POST</span> <code>/orders</code> customer_name</li>
        <li><span class="method">GET</span> <code><a href="/orders">/orders</a></code></li>
        <li><span class="method">GET</span> <code>/orders/{id}</code></li>
        <li><span class="method">PATCH</span> <code>/orders/{id}</code> status?</li>
        <li><span class="method">DELETE</span> <code>/orders/{id}</code></li>
        <li><span class="method">POST</span> <code>/order_items</code> order_id, product_id, quantity</li>
        <li><span class="method">GET</span> <code><a href="/order_items">/order_items</a></code></li>
        <li><span class="method">GET</span> <code>/order_items/{id}</code></li>
    </ul>
</body>
</html>
`

func serveIndexPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

func healthHandler(db Pinger, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.Errorf("Health check failed: %v", err)
				ErrorResponse(c, http.StatusServiceUnavailable, "Database unreachable")
				return
			}
		}
		SuccessResponse(c, http.StatusOK, "OK", nil)
	}
}

func NewRouter(logger *logrus.Logger, db Pinger, handlers ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.Use(CORS())

	router.GET("/", serveIndexPage)
	router.GET("/health", healthHandler(db, logger))
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return router
}
