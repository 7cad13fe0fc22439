package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"swap_server/models"

	"github.com/google/uuid"
)

// SwapService owns the business rules over the swap store: id and timestamp
// minting, the deterministic attachment URL, and the ownership-scoped update
// merge.
type SwapService struct {
	Store  SwapStore
	Bucket string
	Region string
}

// AttachmentURL is the deterministic location of a swap's attachment. It is
// computed once at creation and never written again.
func (ss *SwapService) AttachmentURL(swapID string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", ss.Bucket, ss.Region, swapID)
}

// CreateSwap mints a new record and inserts it.
func (ss *SwapService) CreateSwap(ctx context.Context, description, dueDate, userID string) (*models.SwapItem, error) {
	swapID := uuid.NewString()

	swap := models.SwapItem{
		SwapID:        swapID,
		UserID:        userID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Description:   description,
		DueDate:       dueDate,
		AttachmentURL: ss.AttachmentURL(swapID),
		Offers:        []string{},
	}

	created, err := ss.Store.CreateSwapData(ctx, swap)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetSwap retrieves one record by id.
func (ss *SwapService) GetSwap(ctx context.Context, swapID string) (*models.SwapItem, error) {
	return ss.Store.GetSwapData(ctx, swapID)
}

// GetSwaps returns the caller's own records.
func (ss *SwapService) GetSwaps(ctx context.Context, userID string) ([]models.SwapItem, error) {
	return ss.Store.GetSwapsData(ctx, userID)
}

// GetFeedSwaps returns every record except the caller's own.
func (ss *SwapService) GetFeedSwaps(ctx context.Context, userID string) ([]models.SwapItem, error) {
	return ss.Store.GetFeedSwapsData(ctx, userID)
}

// GetAllSwaps returns every record.
func (ss *SwapService) GetAllSwaps(ctx context.Context) ([]models.SwapItem, error) {
	return ss.Store.GetAllSwapsData(ctx)
}

// DeleteSwap removes a record. Idempotent; the owner check happens at the
// HTTP boundary.
func (ss *SwapService) DeleteSwap(ctx context.Context, swapID string) error {
	return ss.Store.DeleteSwapData(ctx, swapID)
}

// UpdateSwap applies the update merge. The owner's edits are honored for
// description only. Any other authenticated caller toggles their own offer:
// the first update adds the caller to offers, the next one withdraws it.
// dueDate, createdAt, attachmentUrl and userId are never modified, whatever
// the request carried.
func (ss *SwapService) UpdateSwap(ctx context.Context, swapID, callerID string, req models.UpdateSwapRequest) error {
	swap, err := ss.Store.GetSwapData(ctx, swapID)
	if err != nil {
		return err
	}

	if swap.UserID == callerID {
		description := swap.Description
		if req.Description != nil {
			description = *req.Description
		}
		log.Printf("Owner %s editing swap %s", callerID, swapID)
		return ss.Store.UpdateSwapData(ctx, swapID, description, nil, nil)
	}

	offers := toggleOffer(swap.Offers, callerID)
	log.Printf("User %s toggling offer on swap %s (%d -> %d offers)", callerID, swapID, len(swap.Offers), len(offers))
	return ss.Store.UpdateSwapData(ctx, swapID, swap.Description, offers, swap.Offers)
}

// GetUploadURL issues a presigned upload URL for the swap's attachment slot.
func (ss *SwapService) GetUploadURL(ctx context.Context, swapID string) (string, error) {
	return ss.Store.GetSignedURLData(ctx, swapID)
}

// toggleOffer removes userID from offers if present, adds it otherwise. The
// result never holds duplicates and is never nil.
func toggleOffer(offers []string, userID string) []string {
	updated := make([]string, 0, len(offers)+1)
	found := false
	for _, id := range offers {
		if id == userID {
			found = true
			continue
		}
		updated = append(updated, id)
	}
	if !found {
		updated = append(updated, userID)
	}
	return updated
}
