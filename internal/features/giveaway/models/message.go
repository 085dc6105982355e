package models

import "time"

// Message is the structured payload handed to the chat gateway. The engine
// treats it as opaque; only the gateway adapter knows how to render it.
type Message struct {
	Content string
	Embed   *Embed
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   time.Time
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}
