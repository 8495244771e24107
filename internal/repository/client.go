package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gfamlabs/agencydesk/internal/config"
	"github.com/gfamlabs/agencydesk/internal/domain/client"
	"github.com/gfamlabs/agencydesk/internal/dynamodb"
	ierr "github.com/gfamlabs/agencydesk/internal/errors"
	"github.com/gfamlabs/agencydesk/internal/logger"
	"github.com/gfamlabs/agencydesk/internal/types"
)

type clientRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logger.Logger
}

// NewClientRepository creates a DynamoDB-backed client repository
func NewClientRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) client.Repository {
	return &clientRepository{
		client:    client,
		tableName: cfg.DynamoDB.ClientsTable,
		logger:    logger,
	}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal client").
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
			return ierr.NewError("client already exists").
				WithHint("A client with this id already exists").
				WithReportableDetails(map[string]any{
					"client_id": c.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to store client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	out, err := r.client.DB().GetItem(ctx, &awsDynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load client").
			Mark(ierr.ErrDatabase)
	}
	if out.Item == nil {
		return nil, ierr.NewError("client not found").
			WithHintf("Client with ID %s was not found", id).
			WithReportableDetails(map[string]any{
				"client_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	var c client.Client
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal client").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":email": &ddbtypes.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query clients by email").
			Mark(ierr.ErrDatabase)
	}
	if len(out.Items) == 0 {
		return nil, ierr.NewError("client not found").
			WithHintf("No client with email %s", email).
			Mark(ierr.ErrNotFound)
	}

	var c client.Client
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal client").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *clientRepository) List(ctx context.Context, filter *types.ClientFilter) ([]*client.Client, error) {
	out, err := r.client.DB().Scan(ctx, &awsDynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list clients").
			Mark(ierr.ErrDatabase)
	}

	clients := make([]*client.Client, 0, len(out.Items))
	for _, item := range out.Items {
		var c client.Client
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to unmarshal client").
				Mark(ierr.ErrDatabase)
		}
		if filter != nil && filter.Email != nil && !strings.EqualFold(c.Email, *filter.Email) {
			continue
		}
		clients = append(clients, &c)
	}

	qf := types.QueryFilter{}
	if filter != nil {
		qf = filter.QueryFilter
	}
	return paginate(clients, qf), nil
}

func (r *clientRepository) Count(ctx context.Context, filter *types.ClientFilter) (int, error) {
	unlimited := &types.ClientFilter{}
	if filter != nil {
		unlimited.Email = filter.Email
	}
	unlimited.Limit = aws.Int(0)
	clients, err := r.List(ctx, unlimited)
	if err != nil {
		return 0, err
	}
	return len(clients), nil
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal client").
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
			return ierr.NewError("client not found").
				WithHintf("Client with ID %s was not found", c.ID).
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to update client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// SetStripeCustomerID persists the processor customer id with a conditional
// write so the id can never be reassigned once set.
func (r *clientRepository) SetStripeCustomerID(ctx context.Context, id string, stripeCustomerID string) error {
	_, err := r.client.DB().UpdateItem(ctx, &awsDynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET stripe_customer_id = :cust"),
		ConditionExpression: aws.String("attribute_exists(id) AND (attribute_not_exists(stripe_customer_id) OR stripe_customer_id = :cust)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":cust": &ddbtypes.AttributeValueMemberS{Value: stripeCustomerID},
		},
	})
	if err != nil {
		var conditionErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return ierr.NewError("stripe customer id already set").
				WithHint("The client already has a different payment processor customer").
				WithReportableDetails(map[string]any{
					"client_id": id,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to set stripe customer id").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
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
			return ierr.NewError("client not found").
				WithHintf("Client with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return ierr.WithError(err).
			WithHint("Failed to delete client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
