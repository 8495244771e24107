package repository

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/domain/catalog"
	"github.com/gfamlabs/agencydesk/internal/dynamodb"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/types"
)

type catalogRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

// NewCatalogRepository creates a DynamoDB-backed catalog service repository
func NewCatalogRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) catalog.Repository {
	return &catalogRepository{
		client:    client,
		tableName: cfg.DynamoDB.ServicesTable,
		logger:    logger,
	}
}

func (r *catalogRepository) Create(ctx context.Context, s *catalog.Service) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal service").
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
			return ierr.NewError("service already exists").
				WithHint("A service with this id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to store service").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *catalogRepository) Get(ctx context.Context, id string) (*catalog.Service, error) {
	out, err := r.client.DB().GetItem(ctx, &awsDynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load service").
			Mark(ierr.ErrDatabase)
	}
	if out.Item == nil {
		return nil, ierr.NewError("service not found").
			WithHintf("Service with ID %s was not found", id).
			WithReportableDetails(map[string]any{
				"service_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	var s catalog.Service
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal service").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *catalogRepository) List(ctx context.Context, filter *types.ServiceFilter) ([]*catalog.Service, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list services").
			Mark(ierr.ErrDatabase)
	}

	services := make([]*catalog.Service, 0, len(out.Items))
	for _, item := range out.Items {
		var s catalog.Service
		if err := attributevalue.UnmarshalMap(item, &s); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to unmarshal service").
				Mark(ierr.ErrDatabase)
		}
		if !matchServiceFilter(&s, filter) {
			continue
		}
		services = append(services, &s)
	}

	qf := types.QueryFilter{}
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(services, qf), nil
}

func (r *catalogRepository) Count(ctx context.Context, filter *types.ServiceFilter) (int, error) {
	unlimited := &types.ServiceFilter{}
	if filter != nil {
		*unlimited = *filter
	}
	unlimited.Limit = aws.Int(0)
	services, err := r.List(ctx, unlimited)
	if err != nil {
		return 0, err
	}
	return len(services), nil
}

func (r *catalogRepository) Update(ctx context.Context, s *catalog.Service) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal service").
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
			return ierr.NewError("service not found").
				WithHintf("Service with ID %s was not found", s.ID).
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to update service").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DB().DeleteItem(ctx, &awsDynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return ierr.NewError("service not found").
				WithHintf("Service with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to delete service").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func matchServiceFilter(s *catalog.Service, filter *types.ServiceFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Brand != nil && s.Brand != *filter.Brand {
		return false
	}
	if filter.Category != nil && s.Category != *filter.Category {
		return false
	}
	if filter.Status != nil && s.Status != *filter.Status {
		return false
	}
	if filter.UnsyncedOnly && s.StripeSynced {
		return false
	}
	return true
}
