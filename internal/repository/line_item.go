package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	"github.com/gfamlabs/agencydesk/internal/dynamodb"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
)

type lineItemRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

// NewLineItemRepository creates a DynamoDB-backed invoice line item repository
func NewLineItemRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) invoice.LineItemRepository {
	return &lineItemRepository{
		client:    client,
		tableName: cfg.DynamoDB.InvoiceLinesTable,
		logger:    logger,
	}
}

func (r *lineItemRepository) CreateMany(ctx context.Context, items []*invoice.InvoiceLineItem) error {
	for _, li := range items {
		item, err := attributevalue.MarshalMap(li)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to marshal line item").
				Mark(ierr.ErrDatabase)
		}

		_, err = r.client.DB().PutItem(ctx, &awsDynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      item,
		})
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to store line item").
				WithReportableDetails(map[string]any{
					"line_item_id": li.ID,
					"invoice_id":   li.InvoiceID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *lineItemRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*invoice.InvoiceLineItem, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("invoice_id = :inv"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":inv": &ddbtypes.AttributeValueMemberS{Value: invoiceID},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list line items").
			Mark(ierr.ErrDatabase)
	}

	return unmarshalLineItems(out.Items)
}

func (r *lineItemRepository) ListAll(ctx context.Context) ([]*invoice.InvoiceLineItem, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list line items").
			Mark(ierr.ErrDatabase)
	}

	return unmarshalLineItems(out.Items)
}

func unmarshalLineItems(items []map[string]ddbtypes.AttributeValue) ([]*invoice.InvoiceLineItem, error) {
	result := make([]*invoice.InvoiceLineItem, 0, len(items))
	for _, item := range items {
		var li invoice.InvoiceLineItem
		if err := attributevalue.UnmarshalMap(item, &li); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to unmarshal line item").
				Mark(ierr.ErrDatabase)
		}
		result = append(result, &li)
	}
	return result, nil
}
