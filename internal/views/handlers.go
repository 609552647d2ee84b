package views

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"stationdir/internal/location"
)

// RegisterHandlers registers the list and map JSON handlers
func RegisterHandlers(r gin.IRouter, list *ListView, m *MapView) {
	r.GET("/stations", handleList(list))
	r.GET("/map", handleMap(m))
}

// RegisterIndex registers the HTML list page
func RegisterIndex(r gin.IRouter, list *ListView) {
	r.GET("/", handleIndex(list))
}

func handleList(list *ListView) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, list.Render())
	}
}

// handleMap renders markers, centered on the lat/lon query parameters when
// the client sends a device fix
func handleMap(m *MapView) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, hasLat := c.GetQuery("lat")
		lon, hasLon := c.GetQuery("lon")

		if hasLat || hasLon {
			c.JSON(http.StatusOK, m.RenderWith(c.Request.Context(), location.FromQuery(lat, lon)))
			return
		}
		c.JSON(http.StatusOK, m.Render(c.Request.Context()))
	}
}

func handleIndex(list *ListView) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Render(http.StatusOK, render.HTML{
			Template: indexTemplate,
			Name:     "index",
			Data:     struct{ Items []ListItem }{Items: list.Render()},
		})
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Station Directory</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .station { margin: 6px 0; padding: 8px; border-bottom: 1px solid #ddd; }
        form input { margin-right: 6px; }
        .error { color: #b00; }
    </style>
</head>
<body>
    <h1>Station Directory</h1>
    <form id="add-station">
        <input name="name" placeholder="Name">
        <input name="latitude" placeholder="Latitude">
        <input name="longitude" placeholder="Longitude">
        <button type="submit">Add Station</button>
        <span class="error" id="add-error"></span>
    </form>
    <p>{{len .Items}} stations</p>
    <div class="stations">
    {{- range .Items}}
        <div class="station">{{.Label}}</div>
    {{- end}}
    </div>
    <p><a href="/api/stations">Stations API</a> | <a href="/api/map">Map API</a> | <a href="/api/ingestion">Ingestion status</a></p>
    <script>
        const form = document.getElementById('add-station');
        form.addEventListener('submit', async (e) => {
            e.preventDefault();
            const body = Object.fromEntries(new FormData(form));
            const resp = await fetch('/api/stations', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(body),
            });
            if (resp.ok) {
                form.reset();
                return;
            }
            const data = await resp.json();
            document.getElementById('add-error').textContent = data.error;
        });

        const eventSource = new EventSource('/events');
        let version = null;
        eventSource.addEventListener('stations', (event) => {
            const data = JSON.parse(event.data);
            if (version !== null && data.version !== version) {
                window.location.reload();
            }
            version = data.version;
        });
    </script>
</body>
</html>`))
