package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"swap_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SwapStore is the persistence contract for swap records. DynamoSwapStore is
// the production implementation; tests substitute an in-memory fake.
type SwapStore interface {
	CreateSwapData(ctx context.Context, swap models.SwapItem) (models.SwapItem, error)
	GetSwapData(ctx context.Context, swapID string) (*models.SwapItem, error)
	DeleteSwapData(ctx context.Context, swapID string) error
	GetSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error)
	GetFeedSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error)
	GetAllSwapsData(ctx context.Context) ([]models.SwapItem, error)
	UpdateSwapData(ctx context.Context, swapID string, description string, offers, prevOffers []string) error
	GetSignedURLData(ctx context.Context, swapID string) (string, error)
}

// PutObjectPresigner is the slice of the S3 presign client the store uses.
type PutObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// DynamoSwapStore persists swap records in a DynamoDB table keyed by swapId,
// with a GSI on userId, and issues presigned upload URLs against the
// attachments bucket.
type DynamoSwapStore struct {
	Dynamo    *DynamoService
	Presigner PutObjectPresigner
	Table     string
	Index     string
	Bucket    string
}

func NewDynamoSwapStore(dynamo *DynamoService, presigner PutObjectPresigner, table, index, bucket string) *DynamoSwapStore {
	return &DynamoSwapStore{
		Dynamo:    dynamo,
		Presigner: presigner,
		Table:     table,
		Index:     index,
		Bucket:    bucket,
	}
}

// InitializeS3PresignClient initializes the S3 presign client
func InitializeS3PresignClient(region string) *s3.PresignClient {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewPresignClient(s3.NewFromConfig(cfg))
}

func swapKey(swapID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"swapId": &types.AttributeValueMemberS{Value: swapID},
	}
}

// CreateSwapData unconditionally inserts the record.
func (st *DynamoSwapStore) CreateSwapData(ctx context.Context, swap models.SwapItem) (models.SwapItem, error) {
	log.Printf("Creating swap %s for user %s", swap.SwapID, swap.UserID)

	if err := st.Dynamo.PutItem(ctx, st.Table, swap); err != nil {
		return models.SwapItem{}, err
	}
	return swap, nil
}

// GetSwapData retrieves a record by id, or ErrSwapNotFound.
func (st *DynamoSwapStore) GetSwapData(ctx context.Context, swapID string) (*models.SwapItem, error) {
	item, err := st.Dynamo.GetItem(ctx, st.Table, swapKey(swapID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrSwapNotFound, swapID)
	}

	var swap models.SwapItem
	if err := attributevalue.UnmarshalMap(item, &swap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swap %s: %w", swapID, err)
	}
	return &swap, nil
}

// DeleteSwapData removes a record. Deleting a missing id succeeds.
func (st *DynamoSwapStore) DeleteSwapData(ctx context.Context, swapID string) error {
	log.Printf("Deleting swap %s", swapID)
	return st.Dynamo.DeleteItem(ctx, st.Table, swapKey(swapID))
}

// GetSwapsData returns the caller's own records via the userId GSI.
func (st *DynamoSwapStore) GetSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error) {
	var swaps []models.SwapItem
	err := st.Dynamo.QueryItemsWithIndex(ctx, st.Table, st.Index, "userId = :u",
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		}, &swaps)
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

// GetFeedSwapsData scans for every record not owned by the caller.
func (st *DynamoSwapStore) GetFeedSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error) {
	var swaps []models.SwapItem
	err := st.Dynamo.ScanWithFilter(ctx, st.Table, "userId <> :u",
		map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		}, &swaps)
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

// GetAllSwapsData scans the whole table.
func (st *DynamoSwapStore) GetAllSwapsData(ctx context.Context) ([]models.SwapItem, error) {
	var swaps []models.SwapItem
	if err := st.Dynamo.ScanWithFilter(ctx, st.Table, "", nil, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// UpdateSwapData writes description, and offers when present. No other
// attribute is ever touched by update. Offer writes are guarded by a
// condition on the previously read offers value, so a concurrent toggle
// surfaces as ErrConditionFailed instead of silently losing a write.
func (st *DynamoSwapStore) UpdateSwapData(ctx context.Context, swapID string, description string, offers, prevOffers []string) error {
	log.Printf("Updating swap %s", swapID)

	updateExpression := "SET description = :d"
	conditionExpression := ""
	values := map[string]types.AttributeValue{
		":d": &types.AttributeValueMemberS{Value: description},
	}

	if offers != nil {
		updateExpression = "SET offers = :o, description = :d"
		conditionExpression = "offers = :prev"

		offersAttr, err := attributevalue.Marshal(offers)
		if err != nil {
			return fmt.Errorf("failed to marshal offers for swap %s: %w", swapID, err)
		}
		prevAttr, err := attributevalue.Marshal(prevOffers)
		if err != nil {
			return fmt.Errorf("failed to marshal previous offers for swap %s: %w", swapID, err)
		}
		values[":o"] = offersAttr
		values[":prev"] = prevAttr
	}

	return st.Dynamo.UpdateItem(ctx, st.Table, swapKey(swapID), updateExpression, conditionExpression, values)
}

// GetSignedURLData issues a presigned PUT URL for the record's attachment
// slot. The object key is the swap id; the URL expires after five minutes.
// Nothing records issuance, and the id is not checked against the table.
func (st *DynamoSwapStore) GetSignedURLData(ctx context.Context, swapID string) (string, error) {
	log.Printf("Getting signed url for swap %s", swapID)

	params := &s3.PutObjectInput{
		Bucket: aws.String(st.Bucket),
		Key:    aws.String(swapID),
	}

	presigned, err := st.Presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for swap %s: %w", swapID, err)
	}
	return presigned.URL, nil
}
