package repository

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/samber/lo"

	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/domain/invoice"
	"github.com/gfamlabs/agencydesk/internal/dynamodb"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/types"
)

type invoiceRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

// NewInvoiceRepository creates a DynamoDB-backed invoice repository
func NewInvoiceRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{
		client:    client,
		tableName: cfg.DynamoDB.InvoicesTable,
		logger:    logger,
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	item, err := attributevalue.MarshalMap(inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal invoice").
			Mark(ierr.ErrDatabase)
	}

	_, err = r.client.DB().PutItem(ctx, &awsDynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return ierr.NewError("invoice already exists").
				WithHint("An invoice with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to store invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	out, err := r.client.DB().GetItem(ctx, &awsDynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load invoice").
			Mark(ierr.ErrDatabase)
	}
	if out.Item == nil {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice with ID %s was not found", id).
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	var inv invoice.Invoice
	if err := attributevalue.UnmarshalMap(out.Item, &inv); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByStripeID(ctx context.Context, stripeInvoiceID string) (*invoice.Invoice, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("stripe_invoice_id = :sid"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":sid": &ddbtypes.AttributeValueMemberS{Value: stripeInvoiceID},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query invoices by stripe id").
			Mark(ierr.ErrDatabase)
	}
	if len(out.Items) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHintf("No invoice with stripe id %s", stripeInvoiceID).
			Mark(ierr.ErrNotFound)
	}

	var inv invoice.Invoice
	if err := attributevalue.UnmarshalMap(out.Items[0], &inv); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	invoices := make([]*invoice.Invoice, 0, len(out.Items))
	for _, item := range out.Items {
		var inv invoice.Invoice
		if err := attributevalue.UnmarshalMap(item, &inv); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to unmarshal invoice").
				Mark(ierr.ErrDatabase)
		}
		if !matchInvoiceFilter(&inv, filter) {
			continue
		}
		invoices = append(invoices, &inv)
	}

	qf := types.QueryFilter{}
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(invoices, qf), nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	unlimited := &types.InvoiceFilter{}
	if filter != nil {
		*unlimited = *filter
	}
	unlimited.Limit = aws.Int(0)
	invoices, err := r.List(ctx, unlimited)
	if err != nil {
		return 0, err
	}
	return len(invoices), nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	item, err := attributevalue.MarshalMap(inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal invoice").
			Mark(ierr.ErrDatabase)
	}

	_, err = r.client.DB().PutItem(ctx, &awsDynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return ierr.NewError("invoice not found").
				WithHintf("Invoice with ID %s was not found", inv.ID).
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func matchInvoiceFilter(inv *invoice.Invoice, filter *types.InvoiceFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Status != nil && inv.InvoiceStatus != *filter.Status {
		return false
	}
	// Brand filter matches any participating brand, not just the primary,
	// so multi-brand invoices show up under each of their brands
	if filter.Brand != nil && !lo.Contains(inv.ParticipatingBrands, *filter.Brand) {
		return false
	}
	if filter.ClientID != nil && inv.ClientID != *filter.ClientID {
		return false
	}
	return true
}
