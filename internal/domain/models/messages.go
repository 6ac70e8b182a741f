package models

// Push channel payloads. Each message is sent as one JSON text frame.

type WelcomeMessage struct {
	Message string `json:"message"`
}

type MarketDataMessage struct {
	MarketData QuoteSnapshot `json:"marketData"`
}

type NotificationMessage struct {
	Notification string `json:"notification"`
}
