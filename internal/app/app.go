package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"stationdir/internal/config"
	"stationdir/internal/entry"
	"stationdir/internal/ingest"
	"stationdir/internal/location"
	"stationdir/internal/middleware"
	"stationdir/internal/sse"
	"stationdir/internal/stations"
	"stationdir/internal/views"
	"stationdir/pkg/feed"
)

// BuildInfo is reported by the health endpoint
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// App holds the application-level dependencies.
type App struct {
	Router   *gin.Engine
	Stations stations.Manager
	Pipeline ingest.Manager
	SSE      sse.Manager

	cfg *config.Config
}

// New wires the station directory, its ingestion pipeline and the HTTP
// engine. fetcher may be nil, in which case the configured feed URL is used.
func New(cfg *config.Config, fetcher ingest.Fetcher, build BuildInfo) *App {
	stationMgr := stations.NewManager()
	sseMgr := sse.NewManager()

	var parser *feed.Parser
	if fetcher == nil {
		client := &http.Client{Timeout: cfg.FeedTimeout}
		query := feed.NewQuery(cfg.FeedURL, client, nil)
		parser = query.Parser()
		fetcher = query
	}

	pipeline := ingest.NewManager(
		stationMgr,
		fetcher,
		parser,
		feed.Request{UseGzip: cfg.FeedGzip, MaxBytes: cfg.FeedMaxBytes},
		ingest.Fields{
			Name:      cfg.FeedNameField,
			Latitude:  cfg.FeedLatField,
			Longitude: cfg.FeedLonField,
		},
	)

	listView := views.NewListView(stationMgr)
	mapView := views.NewMapView(stationMgr, location.FromConfig(cfg.LocationLat, cfg.LocationLon), cfg.MapCacheSize)
	form := entry.NewForm(stationMgr)

	// --- HTTP engine ---
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	// Event stream is long-lived and sits outside the request timeout
	sse.RegisterHandlers(router, sseMgr)

	timed := router.Group("/")
	timed.Use(middleware.Timeout(cfg.RequestTimeout))
	{
		timed.GET("/health", handleHealth(stationMgr, sseMgr, pipeline, build))
		views.RegisterIndex(timed, listView)

		api := timed.Group("/api")
		views.RegisterHandlers(api, listView, mapView)
		entry.RegisterHandlers(api, form)
		ingest.RegisterHandlers(api, pipeline)
	}

	return &App{
		Router:   router,
		Stations: stationMgr,
		Pipeline: pipeline,
		SSE:      sseMgr,
		cfg:      cfg,
	}
}

// Start connects change notification and runs the ingestion pipeline once.
// Both stop when ctx is done.
func (a *App) Start(ctx context.Context) error {
	go sse.Bridge(ctx, a.Stations, a.SSE)

	if err := a.Pipeline.Start(ctx); err != nil {
		return err
	}

	glog.Infof("Station directory started, ingesting from %s", a.cfg.FeedURL)
	return nil
}

func handleHealth(stationMgr stations.Manager, sseMgr sse.Manager, pipeline ingest.Manager, build BuildInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"stations":    stationMgr.GetAll().Len(),
			"sse_clients": sseMgr.ClientCount(),
			"ingestion":   pipeline.Status().State,
			"build":       build,
		})
	}
}
