package mqtt

import "github.com/sweeney/th-receiver/internal/report"

// DiscardPublisher is used when no broker is configured.
type DiscardPublisher struct{}

func (DiscardPublisher) Publish(report.Event) error      { return nil }
func (DiscardPublisher) PublishSystem(SystemEvent) error { return nil }
func (DiscardPublisher) Close() error                    { return nil }
func (DiscardPublisher) IsConnected() bool               { return false }
