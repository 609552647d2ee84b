package views

import (
	"context"
	"slices"

	"github.com/bluele/gcache"
	"github.com/golang/glog"
	"github.com/mmcloughlin/geohash"

	"stationdir/internal/location"
	"stationdir/internal/stations"
)

const (
	geohashPrecision = 7

	DefaultCacheSize = 64
)

// markerSet is the cached projection of one snapshot version
type markerSet struct {
	markers []Marker
	skipped int
}

// MapView projects the directory into map markers
type MapView struct {
	source   SnapshotSource
	provider location.Provider
	cache    gcache.Cache
}

// NewMapView creates a map view. provider is the default location source;
// cacheSize bounds the number of snapshot versions kept.
func NewMapView(source SnapshotSource, provider location.Provider, cacheSize int) *MapView {
	if provider == nil {
		provider = location.Denied{}
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &MapView{
		source:   source,
		provider: provider,
		cache:    gcache.New(cacheSize).LRU().Build(),
	}
}

// Render renders the map centered with the default provider
func (v *MapView) Render(ctx context.Context) MapRender {
	return v.RenderWith(ctx, v.provider)
}

// RenderWith renders the map centered with provider. A denied or failed
// location request leaves Region nil without affecting markers.
func (v *MapView) RenderWith(ctx context.Context, provider location.Provider) MapRender {
	snap := v.source.GetAll()
	set := v.markers(snap)

	result := MapRender{
		Version:  snap.Version(),
		Location: LocationUnavailable,
		Markers:  slices.Clone(set.markers),
		Skipped:  set.skipped,
	}

	pos, ok, err := location.Fix(ctx, provider)
	if err != nil {
		glog.Warningf("Location unavailable: %v", err)
	}
	if ok {
		result.Location = LocationAvailable
		result.Region = &Region{
			Latitude:       pos.Latitude,
			Longitude:      pos.Longitude,
			LatitudeDelta:  RegionLatitudeDelta,
			LongitudeDelta: RegionLongitudeDelta,
		}
	}

	return result
}

func (v *MapView) markers(snap stations.Snapshot) markerSet {
	key := snap.Version()
	if cached, err := v.cache.Get(key); err == nil {
		return cached.(markerSet)
	}

	set := buildMarkers(snap)
	if err := v.cache.Set(key, set); err != nil {
		glog.V(1).Infof("Failed to cache markers for version %d: %v", key, err)
	}
	return set
}

// buildMarkers emits one marker per renderable station. Stations with
// non-finite coordinates are skipped individually.
func buildMarkers(snap stations.Snapshot) markerSet {
	set := markerSet{markers: make([]Marker, 0, snap.Len())}

	for i, st := range snap.All() {
		if !stations.Renderable(st.Latitude, st.Longitude) {
			glog.Warningf("Skipping marker for station %d %q: invalid coordinates (%v, %v)", i, st.Name, st.Latitude, st.Longitude)
			set.skipped++
			continue
		}

		marker := Marker{
			Index:     i,
			Title:     st.Name,
			Latitude:  st.Latitude,
			Longitude: st.Longitude,
			InRange:   stations.InRange(st.Latitude, st.Longitude),
		}
		if marker.InRange {
			marker.Geohash = geohash.EncodeWithPrecision(st.Latitude, st.Longitude, geohashPrecision)
		}
		set.markers = append(set.markers, marker)
	}

	return set
}
