package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/nexflow/nexflow-server/internal/awsx"
)

// counterKeyPrefix namespaces the per-year sequence item so it never
// collides with an order id.
const counterKeyPrefix = "order-seq#"

// DynamoStore persists orders in a single DynamoDB table keyed by id.
// The per-year order code sequence lives in the same table as a counter
// item updated with an atomic ADD.
type DynamoStore struct {
	client    awsx.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamoStore creates a store bound to a table.
func NewDynamoStore(client awsx.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func (s *DynamoStore) Create(ctx context.Context, in NewOrder) (*Order, error) {
	now := s.nowFunc()
	seq, err := s.nextSequence(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("next order sequence: %w", err)
	}

	o := Order{
		ID:                uuid.NewString(),
		OrderID:           fmt.Sprintf("ORD-%d-%04d", now.Year(), seq),
		FullName:          in.FullName,
		Email:             in.Email,
		Phone:             in.Phone,
		Company:           in.Company,
		ProjectName:       in.ProjectName,
		AutomationType:    in.AutomationType,
		CustomDescription: in.CustomDescription,
		Integrations:      in.Integrations,
		HasCredentials:    in.HasCredentials,
		AttachedFiles:     in.AttachedFiles,
		ExampleLink:       in.ExampleLink,
		DeliverySpeed:     in.DeliverySpeed,
		PriorityNotes:     in.PriorityNotes,
		Status:            StatusNew,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if o.Integrations == nil {
		o.Integrations = []string{}
	}
	if o.AttachedFiles == nil {
		o.AttachedFiles = []AttachedFile{}
	}

	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return nil, fmt.Errorf("marshal order item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put order: %w", err)
	}
	return &o, nil
}

// nextSequence bumps and returns the year-scoped order counter.
func (s *DynamoStore) nextSequence(ctx context.Context, year int) (int, error) {
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: fmt.Sprintf("%s%d", counterKeyPrefix, year)},
		},
		UpdateExpression: awsString("ADD seq :inc"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("update counter: %w", err)
	}
	var counter struct {
		Seq int `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, fmt.Errorf("unmarshal counter: %w", err)
	}
	return counter.Seq, nil
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

func (s *DynamoStore) GetByOrderID(ctx context.Context, orderID string) (*Order, error) {
	// a filtered Scan can return empty pages before the match, so every
	// page must be followed until the key is found or the table ends
	input := &dyn.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: awsString("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
	}
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan by order_id: %w", err)
		}
		if len(out.Items) > 0 {
			var o Order
			if err := attributevalue.UnmarshalMap(out.Items[0], &o); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			return &o, nil
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (s *DynamoStore) List(ctx context.Context) ([]Order, error) {
	input := &dyn.ScanInput{
		TableName:        &s.tableName,
		FilterExpression: awsString("attribute_exists(order_id)"),
	}
	var all []Order
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		for _, item := range out.Items {
			var o Order
			if err := attributevalue.UnmarshalMap(item, &o); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			all = append(all, o)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (s *DynamoStore) Update(ctx context.Context, id string, upd OrderUpdate) (*Order, error) {
	now := s.nowFunc()

	expr := "SET updated_at = :ua"
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
	}
	if upd.Status != nil {
		expr += ", #s = :status"
		names["#s"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: *upd.Status}
	}
	if upd.AdminNotes != nil {
		expr += ", admin_notes = :notes"
		values[":notes"] = &types.AttributeValueMemberS{Value: *upd.AdminNotes}
	}

	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          &expr,
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString("attribute_exists(id)"),
		ReturnValues:              types.ReturnValueAllNew,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, fmt.Errorf("unmarshal updated order: %w", err)
	}
	return &o, nil
}

func (s *DynamoStore) Delete(ctx context.Context, id string) (bool, error) {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: awsString("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete item: %w", err)
	}
	return true, nil
}

// isConditionalCheckFailed detects a failed ConditionExpression regardless
// of whether the SDK surfaces the typed exception or a generic API error.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
