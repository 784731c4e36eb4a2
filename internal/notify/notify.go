package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/MariaMashkovska/library-project/internal/models"
)

// Event names a rental lifecycle occurrence listeners can react to.
type Event string

// EventOverdue is raised when a read operation observes a rental whose derived
// status is Overdue.
const EventOverdue Event = "overdue"

// Listener receives rental events. Implementations must tolerate being called
// synchronously on the request path.
type Listener interface {
	Notify(rental *models.Rental, event Event)
}

// Hub fans events out to registered listeners in registration order. Listener
// failures are isolated: a panicking listener never aborts the triggering operation
// or stops later listeners from running.
type Hub struct {
	mu        sync.Mutex
	listeners []Listener
}

func NewHub(listeners ...Listener) *Hub {
	return &Hub{listeners: listeners}
}

// Attach registers a listener. Attaching the same listener twice is a no-op.
func (h *Hub) Attach(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.listeners {
		if existing == l {
			return
		}
	}
	h.listeners = append(h.listeners, l)
}

// Detach removes a previously attached listener.
func (h *Hub) Detach(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.listeners {
		if existing == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Notify delivers the event to every listener, in order.
func (h *Hub) Notify(rental *models.Rental, event Event) {
	h.mu.Lock()
	listeners := make([]Listener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		h.deliver(l, rental, event)
	}
}

func (h *Hub) deliver(l Listener, rental *models.Rental, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] notify: listener %T panicked on event %q: %v", l, event, r)
		}
	}()
	l.Notify(rental, event)
}

// LogListener writes overdue alerts to the process log.
type LogListener struct{}

func (LogListener) Notify(rental *models.Rental, event Event) {
	if event == EventOverdue {
		log.Printf("[WARN] ALERT: rental %d is overdue (reader %d, due %s)",
			rental.ID, rental.ReaderID, rental.ExpectedReturnDate.Format("2006-01-02"))
	}
}

// WebhookListener POSTs event payloads to an external endpoint. Delivery errors are
// logged and swallowed.
type WebhookListener struct {
	URL    string
	Client *http.Client
}

func NewWebhookListener(url string) *WebhookListener {
	return &WebhookListener{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Event    Event  `json:"event"`
	RentalID int64  `json:"rental_id"`
	BookID   int64  `json:"book_id"`
	ReaderID int64  `json:"reader_id"`
	DueDate  string `json:"due_date"`
}

func (w *WebhookListener) Notify(rental *models.Rental, event Event) {
	if w.URL == "" {
		return
	}
	if err := w.post(rental, event); err != nil {
		log.Printf("[ERROR] notify: webhook delivery failed for rental %d: %v", rental.ID, err)
	}
}

func (w *WebhookListener) post(rental *models.Rental, event Event) error {
	body, err := json.Marshal(webhookPayload{
		Event:    event,
		RentalID: rental.ID,
		BookID:   rental.BookID,
		ReaderID: rental.ReaderID,
		DueDate:  rental.ExpectedReturnDate.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
