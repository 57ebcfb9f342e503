package dynamodb

import (
	"context"
	"fmt"
	"time"

	"plenum/application/ports"
	"plenum/domain/core/entities"
	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// SeriesRepository implements ports.MeetingSeriesRepository on DynamoDB.
// The ordered minutes-ID list lives inside the series document; membership
// changes use list_append and indexed REMOVE updates guarded by condition
// expressions so concurrent callers cannot double-append or pull the wrong
// element.
type SeriesRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSeriesRepository creates a new SeriesRepository
func NewSeriesRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.MeetingSeriesRepository {
	return &SeriesRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// seriesItem represents the DynamoDB item structure for a meeting series
type seriesItem struct {
	PK         string               `dynamodbav:"PK"`
	SK         string               `dynamodbav:"SK"`
	EntityType string               `dynamodbav:"EntityType"`
	SeriesID   string               `dynamodbav:"SeriesID"`
	Name       string               `dynamodbav:"Name"`
	Project    string               `dynamodbav:"Project"`
	Moderators []string             `dynamodbav:"Moderators"`
	MinutesIDs []string             `dynamodbav:"MinutesIDs"`
	Topics     []valueobjects.Topic `dynamodbav:"Topics"`
	OpenTopics []valueobjects.Topic `dynamodbav:"OpenTopics"`
	CreatedAt  string               `dynamodbav:"CreatedAt"`
	UpdatedAt  string               `dynamodbav:"UpdatedAt"`
}

func seriesPK(id valueobjects.SeriesID) string {
	return fmt.Sprintf("SERIES#%s", id.String())
}

func seriesKey(id valueobjects.SeriesID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: seriesPK(id)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

func toSeriesItem(s *entities.MeetingSeries) seriesItem {
	ids := make([]string, 0, len(s.MinutesIDs()))
	for _, id := range s.MinutesIDs() {
		ids = append(ids, id.String())
	}
	return seriesItem{
		PK:         seriesPK(s.ID()),
		SK:         "METADATA",
		EntityType: "SERIES",
		SeriesID:   s.ID().String(),
		Name:       s.Name(),
		Project:    s.Project(),
		Moderators: s.Moderators(),
		MinutesIDs: ids,
		Topics:     s.Topics(),
		OpenTopics: s.OpenTopics(),
		CreatedAt:  s.CreatedAt().Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt().Format(time.RFC3339),
	}
}

func fromSeriesItem(item seriesItem) (*entities.MeetingSeries, error) {
	id, err := valueobjects.NewSeriesIDFromString(item.SeriesID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored series has an invalid ID", err)
	}

	minutesIDs := make([]valueobjects.MinutesID, 0, len(item.MinutesIDs))
	for _, raw := range item.MinutesIDs {
		mid, err := valueobjects.NewMinutesIDFromString(raw)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("stored series references an invalid minutes ID", err)
		}
		minutesIDs = append(minutesIDs, mid)
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructMeetingSeries(
		id, item.Name, item.Project,
		item.Moderators, minutesIDs,
		item.Topics, item.OpenTopics,
		createdAt, updatedAt,
	)
}

// GetByID retrieves a series by its ID
func (r *SeriesRepository) GetByID(ctx context.Context, id valueobjects.SeriesID) (*entities.MeetingSeries, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       seriesKey(id),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get series", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("meeting series %s not found", id.String()))
	}

	var item seriesItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to unmarshal series", err)
	}
	return fromSeriesItem(item)
}

// Insert stores a new series document
func (r *SeriesRepository) Insert(ctx context.Context, s *entities.MeetingSeries) error {
	av, err := attributevalue.MarshalMap(toSeriesItem(s))
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to marshal series", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return pkgerrors.NewNotAllowedError("meeting series already exists")
		}
		return pkgerrors.NewDatabaseError("failed to insert series", err)
	}
	return nil
}

// Update persists the current state of an existing series document
func (r *SeriesRepository) Update(ctx context.Context, s *entities.MeetingSeries) (int, error) {
	item := toSeriesItem(s)
	item.UpdatedAt = time.Now().Format(time.RFC3339)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("failed to marshal series", err)
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
		return 0, pkgerrors.NewDatabaseError("failed to update series", err)
	}
	return 1, nil
}

// AppendMinutes adds a minutes ID to the end of the series' ordered list.
// The contains guard keeps a retried call from double-appending.
func (r *SeriesRepository) AppendMinutes(ctx context.Context, seriesID valueobjects.SeriesID, minutesID valueobjects.MinutesID) (int, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 seriesKey(seriesID),
		UpdateExpression:    aws.String("SET MinutesIDs = list_append(if_not_exists(MinutesIDs, :empty), :ids), UpdatedAt = :now"),
		ConditionExpression: aws.String("attribute_exists(PK) AND NOT contains(MinutesIDs, :id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":ids": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: minutesID.String()},
			}},
			":id":  &types.AttributeValueMemberS{Value: minutesID.String()},
			":now": &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return 0, nil
		}
		return 0, pkgerrors.NewDatabaseError("failed to append minutes to series", err)
	}

	r.logger.Debug("Minutes appended to series",
		zap.String("seriesID", seriesID.String()),
		zap.String("minutesID", minutesID.String()),
	)
	return 1, nil
}

// PullMinutes removes a minutes ID from the series' ordered list. DynamoDB
// removes list elements by index, so the current index is read first and
// the REMOVE is guarded by a condition that the element is still the same
// ID. A concurrent reorder fails the condition and reports zero affected.
func (r *SeriesRepository) PullMinutes(ctx context.Context, seriesID valueobjects.SeriesID, minutesID valueobjects.MinutesID) (int, error) {
	series, err := r.GetByID(ctx, seriesID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	index := -1
	for i, id := range series.MinutesIDs() {
		if id.Equals(minutesID) {
			index = i
			break
		}
	}
	if index < 0 {
		return 0, nil
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 seriesKey(seriesID),
		UpdateExpression:    aws.String(fmt.Sprintf("REMOVE MinutesIDs[%d] SET UpdatedAt = :now", index)),
		ConditionExpression: aws.String(fmt.Sprintf("MinutesIDs[%d] = :id", index)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id":  &types.AttributeValueMemberS{Value: minutesID.String()},
			":now": &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return 0, nil
		}
		return 0, pkgerrors.NewDatabaseError("failed to pull minutes from series", err)
	}
	return 1, nil
}

// Remove deletes the series document
func (r *SeriesRepository) Remove(ctx context.Context, id valueobjects.SeriesID) (int, error) {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 seriesKey(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return 0, nil
		}
		return 0, pkgerrors.NewDatabaseError("failed to remove series", err)
	}

	r.logger.Info("Series removed", zap.String("seriesID", id.String()))
	return 1, nil
}
