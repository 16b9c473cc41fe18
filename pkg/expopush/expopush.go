package expopush

import (
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the Expo push gateway endpoint.
const DefaultURL = "https://exp.host/--/api/v2/push/send"

// Aggregate result statuses for a batch send.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// Message is a single push message addressed to one device token. Data is
// passed through to the client app unchanged.
type Message struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Sound string         `json:"sound,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// Ticket mirrors one entry of the gateway's response: either an accepted
// message id or a per-message error.
type Ticket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Result is the structured outcome of one batch send. Status is success when
// every ticket was accepted, partial when some were, error when none were.
type Result struct {
	Status  string   `json:"status"`
	Tickets []Ticket `json:"tickets"`
}

// Client talks to the Expo push gateway.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient creates a push client for the given gateway URL; an empty url
// selects the public Expo endpoint.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http: resty.New().SetTimeout(10 * time.Second),
		url:  url,
	}
}

type pushResponse struct {
	Data []Ticket `json:"data"`
}

// Send posts the messages to the gateway and classifies the outcome. A
// transport or non-200 failure returns an error alongside a Result with
// status error, so callers can log a uniform shape either way.
func (c *Client) Send(messages []Message) (*Result, error) {
	if len(messages) == 0 {
		return &Result{Status: StatusSuccess}, nil
	}

	var parsed pushResponse
	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(messages).
		SetResult(&parsed).
		Post(c.url)
	if err != nil {
		return &Result{Status: StatusError}, fmt.Errorf("push gateway request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return &Result{Status: StatusError},
			fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}

	result := &Result{Tickets: parsed.Data}
	accepted := 0
	for _, ticket := range parsed.Data {
		if ticket.Status == "ok" {
			accepted++
		} else {
			log.Printf("Push ticket error: %s (%v)", ticket.Message, ticket.Details)
		}
	}
	switch {
	case accepted == len(messages):
		result.Status = StatusSuccess
	case accepted > 0:
		result.Status = StatusPartial
	default:
		result.Status = StatusError
	}
	return result, nil
}
