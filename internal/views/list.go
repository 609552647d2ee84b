package views

import (
	"fmt"
	"strconv"
)

// ListView projects the directory into display rows
type ListView struct {
	source SnapshotSource
}

// NewListView creates a list view over source
func NewListView(source SnapshotSource) *ListView {
	return &ListView{source: source}
}

// Render returns one item per station in directory order
func (v *ListView) Render() []ListItem {
	snap := v.source.GetAll()

	items := make([]ListItem, 0, snap.Len())
	for i, st := range snap.All() {
		items = append(items, ListItem{
			Index:     i,
			Name:      st.Name,
			Latitude:  st.Latitude,
			Longitude: st.Longitude,
			Label:     Label(st.Name, st.Latitude, st.Longitude),
		})
	}
	return items
}

// Label formats a station line as "<name> - Latitude: <lat>, Longitude: <lon>"
func Label(name string, lat, lon float64) string {
	return fmt.Sprintf("%s - Latitude: %s, Longitude: %s", name, formatCoord(lat), formatCoord(lon))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
