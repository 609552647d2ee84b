package sse

import (
	"context"

	"github.com/golang/glog"

	"stationdir/internal/stations"
)

// Directory is the part of the station directory the bridge needs
type Directory interface {
	GetAll() stations.Snapshot
	Subscribe() (<-chan stations.Snapshot, func())
}

// SummaryOf describes a snapshot for clients
func SummaryOf(snap stations.Snapshot) Summary {
	return Summary{Version: snap.Version(), Count: snap.Len()}
}

// Bridge forwards directory changes to SSE clients and greets new clients
// with the current summary. It returns when ctx is done.
func Bridge(ctx context.Context, dir Directory, mgr Manager) {
	mgr.SetClientConnectCallback(func(clientID string) {
		mgr.SendToClient(clientID, Message{Type: EventStations, Data: SummaryOf(dir.GetAll())})
	})

	updates, cancel := dir.Subscribe()
	defer cancel()

	glog.V(1).Info("SSE bridge subscribed to station directory")

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if mgr.HasClients() {
				mgr.Broadcast(Message{Type: EventStations, Data: SummaryOf(snap)})
			}
		}
	}
}
