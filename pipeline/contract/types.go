package contract

import (
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

type ResearchRequest struct {
	Topic string `json:"topic"`
}

type ResearchResult struct {
	Topic        string   `json:"topic"`
	ResearchData string   `json:"research_data"`
	Sources      []string `json:"sources,omitempty"`
}

type OutlineRequest struct {
	Topic        string `json:"topic"`
	ResearchData string `json:"research_data,omitempty"`
}

type OutlineResult struct {
	Topic   string         `json:"topic"`
	Outline *statex.Outline `json:"outline"`
	RawJSON string         `json:"raw_json,omitempty"`
}

type WriteRequest struct {
	Topic        string          `json:"topic"`
	ContentType  string          `json:"content_type"`
	Style        string          `json:"style"`
	Length       string          `json:"length"`
	Channel      string          `json:"channel"`
	Outline      *statex.Outline `json:"outline,omitempty"`
	ResearchData string          `json:"research_data,omitempty"`
}

type WriteResult struct {
	Title      string                   `json:"title"`
	Content    string                   `json:"content"`
	WordCount  int                      `json:"word_count"`
	Compliance *statex.ComplianceReport `json:"compliance,omitempty"`
}

type PublishRequest struct {
	PhoneNumber string `json:"phone_number"`
	Content     string `json:"content"`
	Title       string `json:"title,omitempty"`
	AutoSend    bool   `json:"auto_send"`
}

type PublishResult struct {
	Status         string `json:"status"`
	PhoneNumber    string `json:"phone_number"`
	MessageLength  int    `json:"message_length"`
	SentAt         string `json:"sent_at,omitempty"`
	DeliveryMethod string `json:"delivery_method"`
}
