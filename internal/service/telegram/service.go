package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	converter "github.com/you-humble/farm-connect/internal/converter/telegram"
	"github.com/you-humble/farm-connect/internal/model"
)

type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// service fans admin activity out to every known chat.
type service struct {
	client  MessageSender
	mu      sync.RWMutex
	storage map[int64]struct{}
}

func NewTgService(client MessageSender, chatIDs ...int64) *service {
	svc := &service{client: client, storage: make(map[int64]struct{}, len(chatIDs))}
	for _, id := range chatIDs {
		svc.storage[id] = struct{}{}
	}
	return svc
}

func (svc *service) NotifyPurchaseRecorded(ctx context.Context, event model.PurchaseRecorded) error {
	msg, err := converter.BuildPurchaseRecorded(event)
	if err != nil {
		return err
	}

	var errs []error
	for _, chatID := range svc.chatIDs() {
		if err := svc.client.SendMessage(ctx, chatID, msg); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}

	return errors.Join(errs...)
}

func (svc *service) chatIDs() []int64 {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	ids := make([]int64, 0, len(svc.storage))
	for id := range svc.storage {
		ids = append(ids, id)
	}
	return ids
}

func (svc *service) AddChatID(_ context.Context, chatID int64) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.storage[chatID] = struct{}{}
}
