package i

import (
	dmn "github.com/beka-birhanu/vinom-bot/domain"
)

// EventPublisher receives every decision the player takes.
type EventPublisher interface {
	Publish(event dmn.TickEvent)
}

// PlayerMonitor is the view of the player exposed to the API.
type PlayerMonitor interface {
	Snapshot() dmn.Status
	Chat(message string) error
}
