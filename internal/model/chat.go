package model

import "time"

// Route tells which path produced a dialogue reply.
type Route string

const (
	RouteLocal  Route = "local"
	RouteRemote Route = "remote"
)

// Turn is the outcome of one assistant exchange. Source names the local rule
// or the remote model that produced Reply.
type Turn struct {
	RequestID    string
	Message      string
	StockContext string
	Reply        string
	Route        Route
	Source       string
	Duration     time.Duration
}

// NewsItem is a headline served alongside market data.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}
