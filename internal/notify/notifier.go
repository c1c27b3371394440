package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier posts alert text to a webhook endpoint. Dispatch is
// detached: the caller never waits, failures are dropped, nothing is
// retried. In-flight dispatches are not tracked and may be cut off at
// process exit.
type Notifier struct {
	url    string
	client *http.Client
	log    *logrus.Entry
}

// webhookPayload is the wire body: {"text": "..."}.
type webhookPayload struct {
	Text string `json:"text"`
}

// NewNotifier creates a Notifier for the given webhook URL.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    logrus.WithField("component", "notify"),
	}
}

// Dispatch sends the alert text in a detached goroutine and returns
// immediately. Transport errors and non-2xx responses only surface at
// debug level; they never reach pipeline state.
func (n *Notifier) Dispatch(text string) {
	go func() {
		body, err := json.Marshal(webhookPayload{Text: "🚨 sentinel alert: " + text})
		if err != nil {
			n.log.Debugf("encode webhook payload: %v", err)
			return
		}

		resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
		if err != nil {
			n.log.Debugf("webhook post failed: %v", err)
			return
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			n.log.Debugf("webhook returned %s", resp.Status)
		}
	}()
}
