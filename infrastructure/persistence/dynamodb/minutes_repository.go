package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plenum/application/ports"
	"plenum/domain/core/entities"
	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"
	"plenum/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// MinutesRepository implements ports.MinutesRepository on DynamoDB. Every
// conditional write maps a ConditionalCheckFailedException to an affected
// count of zero; callers decide whether zero is a no-op or a fault.
type MinutesRepository struct {
	client      *dynamodb.Client
	tableName   string
	seriesIndex string
	logger      *zap.Logger
}

// NewMinutesRepository creates a new MinutesRepository
func NewMinutesRepository(client *dynamodb.Client, tableName, seriesIndex string, logger *zap.Logger) ports.MinutesRepository {
	return &MinutesRepository{
		client:      client,
		tableName:   tableName,
		seriesIndex: seriesIndex,
		logger:      logger,
	}
}

// minutesItem represents the DynamoDB item structure for a minutes document
type minutesItem struct {
	PK               string               `dynamodbav:"PK"`
	SK               string               `dynamodbav:"SK"`
	GSI1PK           string               `dynamodbav:"GSI1PK"` // SERIES#<id>, for per-series queries
	GSI1SK           string               `dynamodbav:"GSI1SK"` // MINUTES#<id>
	EntityType       string               `dynamodbav:"EntityType"`
	MinutesID        string               `dynamodbav:"MinutesID"`
	SeriesID         string               `dynamodbav:"SeriesID"`
	Date             string               `dynamodbav:"Date"`
	Topics           []valueobjects.Topic `dynamodbav:"Topics"`
	IsFinalized      bool                 `dynamodbav:"IsFinalized"`
	IsUnfinalized    bool                 `dynamodbav:"IsUnfinalized"`
	FinalizedAt      string               `dynamodbav:"FinalizedAt,omitempty"`
	FinalizedBy      string               `dynamodbav:"FinalizedBy,omitempty"`
	FinalizedVersion int                  `dynamodbav:"FinalizedVersion"`
	CreatedAt        string               `dynamodbav:"CreatedAt"`
	UpdatedAt        string               `dynamodbav:"UpdatedAt"`
}

func minutesPK(id valueobjects.MinutesID) string {
	return fmt.Sprintf("MINUTES#%s", id.String())
}

func toMinutesItem(m *entities.Minutes) minutesItem {
	item := minutesItem{
		PK:               minutesPK(m.ID()),
		SK:               "METADATA",
		GSI1PK:           fmt.Sprintf("SERIES#%s", m.SeriesID().String()),
		GSI1SK:           minutesPK(m.ID()),
		EntityType:       "MINUTES",
		MinutesID:        m.ID().String(),
		SeriesID:         m.SeriesID().String(),
		Date:             utils.FormatDate(m.Date()),
		Topics:           m.Topics(),
		IsFinalized:      m.IsFinalized(),
		IsUnfinalized:    m.IsUnfinalized(),
		FinalizedBy:      m.FinalizedBy(),
		FinalizedVersion: m.FinalizedVersion(),
		CreatedAt:        m.CreatedAt().Format(time.RFC3339),
		UpdatedAt:        m.UpdatedAt().Format(time.RFC3339),
	}
	if !m.FinalizedAt().IsZero() {
		item.FinalizedAt = m.FinalizedAt().Format(time.RFC3339)
	}
	return item
}

func fromMinutesItem(item minutesItem) (*entities.Minutes, error) {
	id, err := valueobjects.NewMinutesIDFromString(item.MinutesID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored minutes has an invalid ID", err)
	}
	seriesID, err := valueobjects.NewSeriesIDFromString(item.SeriesID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored minutes has an invalid series ID", err)
	}
	date, err := utils.ParseDate(item.Date)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored minutes has an invalid date", err)
	}

	var finalizedAt time.Time
	if item.FinalizedAt != "" {
		finalizedAt, _ = time.Parse(time.RFC3339, item.FinalizedAt)
	}
	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructMinutes(
		id, seriesID, date, item.Topics,
		item.IsFinalized, item.IsUnfinalized,
		finalizedAt, item.FinalizedBy, item.FinalizedVersion,
		createdAt, updatedAt,
	)
}

// Insert stores a new minutes document, refusing to overwrite an existing one
func (r *MinutesRepository) Insert(ctx context.Context, m *entities.Minutes) error {
	av, err := attributevalue.MarshalMap(toMinutesItem(m))
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to marshal minutes", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotAllowedError("minutes already exists")
		}
		return pkgerrors.NewDatabaseError("failed to insert minutes", err)
	}

	r.logger.Debug("Minutes inserted",
		zap.String("minutesID", m.ID().String()),
		zap.String("seriesID", m.SeriesID().String()),
	)
	return nil
}

// GetByID retrieves a minutes document by its ID
func (r *MinutesRepository) GetByID(ctx context.Context, id valueobjects.MinutesID) (*entities.Minutes, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: minutesPK(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get minutes", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("minutes %s not found", id.String()))
	}

	var item minutesItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to unmarshal minutes", err)
	}
	return fromMinutesItem(item)
}

// ListBySeries retrieves all minutes belonging to a series via the series GSI
func (r *MinutesRepository) ListBySeries(ctx context.Context, seriesID valueobjects.SeriesID) ([]*entities.Minutes, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("SERIES#%s", seriesID.String())))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to build series query", err)
	}

	var result []*entities.Minutes
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(r.seriesIndex),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("failed to query minutes by series", err)
		}

		for _, raw := range out.Items {
			var item minutesItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("failed to unmarshal minutes", err)
			}
			m, err := fromMinutesItem(item)
			if err != nil {
				return nil, err
			}
			result = append(result, m)
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return result, nil
}

// Update persists the current state of an existing minutes document
func (r *MinutesRepository) Update(ctx context.Context, m *entities.Minutes) (int, error) {
	av, err := attributevalue.MarshalMap(toMinutesItem(m))
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("failed to marshal minutes", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return 0, nil
		}
		return 0, pkgerrors.NewDatabaseError("failed to update minutes", err)
	}
	return 1, nil
}

// RemoveDraft deletes the minutes only while it is still a draft. The state
// condition travels with the delete itself, so a concurrently finalized
// minutes is never lost.
func (r *MinutesRepository) RemoveDraft(ctx context.Context, id valueobjects.MinutesID) (int, error) {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: minutesPK(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		ConditionExpression: aws.String("attribute_exists(PK) AND IsFinalized = :draft"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":draft": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return 0, nil
		}
		return 0, pkgerrors.NewDatabaseError("failed to remove minutes", err)
	}
	return 1, nil
}

// RemoveAllBySeries deletes every minutes of a series regardless of state
func (r *MinutesRepository) RemoveAllBySeries(ctx context.Context, seriesID valueobjects.SeriesID) (int, error) {
	minutes, err := r.ListBySeries(ctx, seriesID)
	if err != nil {
		return 0, err
	}

	removed := 0
	var batch []types.WriteRequest
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.tableName: batch,
			},
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("failed to batch-remove minutes", err)
		}
		removed += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, m := range minutes {
		batch = append(batch, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: minutesPK(m.ID())},
					"SK": &types.AttributeValueMemberS{Value: "METADATA"},
				},
			},
		})
		if len(batch) == 25 { // BatchWriteItem limit
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := flush(); err != nil {
		return removed, err
	}

	r.logger.Info("Removed minutes of series",
		zap.String("seriesID", seriesID.String()),
		zap.Int("count", removed),
	)
	return removed, nil
}

// isConditionalCheckFailed reports whether err is a failed DynamoDB
// condition expression
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
