// pkg/electrician/monitor.go
package electrician

import (
	"context"
	"encoding/json"

	"github.com/3liz/qjazz/pkg/server"
)

// ReportMonitor publishes dispatch reports as JSON on a fixed topic.
type ReportMonitor struct {
	relay RelayClient
	topic string
}

func NewReportMonitor(relay RelayClient, topic string) *ReportMonitor {
	return &ReportMonitor{relay: relay, topic: topic}
}

func (m *ReportMonitor) Publish(ctx context.Context, r server.Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return m.relay.Publish(ctx, m.topic, b)
}
