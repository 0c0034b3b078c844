package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fitfusion/fitfusion-api/internal/domain"
)

// WorkoutRepo provides typed DynamoDB operations for the workouts table.
// PK: workout_id; user_id-index GSI for per-user listing.
type WorkoutRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewWorkoutRepo(client *dynamodb.Client, tableName string) *WorkoutRepo {
	return &WorkoutRepo{client: client, tableName: tableName}
}

func (r *WorkoutRepo) Put(ctx context.Context, w *domain.Workout) error {
	item, err := attributevalue.MarshalMap(w)
	if err != nil {
		return fmt.Errorf("marshal workout: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *WorkoutRepo) Get(ctx context.Context, workoutID string) (*domain.Workout, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("workout_id", workoutID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("workout not found: %w", domain.ErrNotFound)
	}
	var w domain.Workout
	if err := attributevalue.UnmarshalMap(out.Item, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkoutRepo) ListByUser(ctx context.Context, userID string) ([]domain.Workout, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("user_id-index"),
		KeyConditionExpression:   aws.String("#u = :v"),
		ExpressionAttributeNames: map[string]string{"#u": "user_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var workouts []domain.Workout
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *WorkoutRepo) Delete(ctx context.Context, workoutID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("workout_id", workoutID),
	})
	return err
}
