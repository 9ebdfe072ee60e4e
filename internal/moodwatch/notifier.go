package moodwatch

import (
	"context"
	"strings"

	"pet-adoption-api/internal/domain/pets"
	"pet-adoption-api/internal/platform/httpclient"
)

// WebhookNotifier postea la lista de atención a un endpoint configurable
// (ops/chat del refugio). Es opcional y best-effort.
type WebhookNotifier struct {
	client *httpclient.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		client: httpclient.New(0),
		url:    strings.TrimSpace(url),
	}
}

type webhookPayload struct {
	Count int           `json:"count"`
	Pets  []webhookItem `json:"pets"`
}

type webhookItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
}

func (n *WebhookNotifier) NotifySadPets(ctx context.Context, sad []pets.Pet) error {
	if n == nil || n.url == "" {
		return nil
	}

	payload := webhookPayload{Count: len(sad)}
	for _, p := range sad {
		payload.Pets = append(payload.Pets, webhookItem{
			ID:      p.ID,
			Name:    p.Name,
			Species: p.Species,
		})
	}

	return n.client.PostJSON(ctx, n.url, payload, nil)
}
