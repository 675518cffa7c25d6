package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const postmarkEndpoint = "https://api.postmarkapp.com/email"

// PostmarkEmailSender sends email through the Postmark single-send API.
type PostmarkEmailSender struct {
	token  string
	from   string
	client *http.Client
}

func NewPostmarkEmailSender() *PostmarkEmailSender {
	return &PostmarkEmailSender{
		token:  os.Getenv("POSTMARK_SERVER_TOKEN"),
		from:   os.Getenv("COMMS_FROM_EMAIL"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type postmarkSendRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
}

type postmarkSendResponse struct {
	MessageID   string `json:"MessageID"`
	ErrorCode   int    `json:"ErrorCode"`
	Message     string `json:"Message"`
	SubmittedAt string `json:"SubmittedAt"`
}

func (p *PostmarkEmailSender) SendEmail(from, to, subject, html string) (*EmailResult, error) {
	if from == "" {
		from = p.from
	}

	payload, err := json.Marshal(postmarkSendRequest{
		From:     from,
		To:       to,
		Subject:  subject,
		HtmlBody: html,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, postmarkEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out postmarkSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("postmark: decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.ErrorCode != 0 {
		return nil, fmt.Errorf("postmark: send failed (code %d): %s", out.ErrorCode, out.Message)
	}

	return &EmailResult{Provider: "postmark", MessageID: out.MessageID, From: from}, nil
}
