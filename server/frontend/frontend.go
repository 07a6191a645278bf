// Package frontend serves the HTML shells for the three views. The heavy
// lifting (3D scene, table, dashboard rendering) happens client-side; the
// shells only bootstrap the scripts that fetch /api/dataset.
package frontend

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed dist
var distFS embed.FS

// RegisterRoutes serves the view shells and their static assets.
func RegisterRoutes(echoServer *echo.Echo) {
	assets, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic(err)
	}

	echoServer.GET("/", servePage(assets, "index.html"))
	echoServer.GET("/table-view", servePage(assets, "table.html"))
	echoServer.GET("/dashboard", servePage(assets, "dashboard.html"))
	echoServer.StaticFS("/static", assets)
}

func servePage(assets fs.FS, name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		buf, err := fs.ReadFile(assets, name)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "page not found")
		}
		return c.HTMLBlob(http.StatusOK, buf)
	}
}
