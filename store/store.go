package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/fargito/todos/internal/keys"
)

// CountAttr is the numeric attribute of a counter record.
const CountAttr = "count"

// API is the subset of the DynamoDB client the Store uses.
// *dynamodb.Client satisfies it.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Store provides the record operations of the todo table on DynamoDB.
type Store struct {
	client API
	config Config
}

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// TableName returns the table the store operates on.
func (s *Store) TableName() string {
	return s.config.TableName
}

// key builds the primary key attributes of a record.
func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keys.PartitionAttr: &types.AttributeValueMemberS{Value: pk},
		keys.SortAttr:      &types.AttributeValueMemberS{Value: sk},
	}
}

// Put writes a record unconditionally. The key attributes are set from pk
// and sk, overriding any present in attrs.
func (s *Store) Put(ctx context.Context, pk, sk string, attrs map[string]types.AttributeValue) error {
	item := make(map[string]types.AttributeValue, len(attrs)+2)
	for k, v := range attrs {
		item[k] = v
	}
	for k, v := range key(pk, sk) {
		item[k] = v
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item in %s: %w", s.config.TableName, err)
	}
	return nil
}

// DeleteReturningOld deletes a record and returns the attributes it held.
// It returns a nil map, and no error, when there was nothing to delete.
func (s *Store) DeleteReturningOld(ctx context.Context, pk, sk string) (map[string]types.AttributeValue, error) {
	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.config.TableName),
		Key:          key(pk, sk),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete item in %s: %w", s.config.TableName, err)
	}
	if len(result.Attributes) == 0 {
		return nil, nil
	}
	return result.Attributes, nil
}

// QueryPrefix returns every record of a partition whose sort key begins with
// skPrefix, in ascending sort key order, following all pages.
func (s *Store) QueryPrefix(ctx context.Context, pk, skPrefix string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("#pk = :pk AND begins_with(#sk, :prefix)"),
		ExpressionAttributeNames: map[string]string{
			"#pk": keys.PartitionAttr,
			"#sk": keys.SortAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: pk},
			":prefix": &types.AttributeValueMemberS{Value: skPrefix},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if s.config.ConsistentReads {
		input.ConsistentRead = aws.Bool(true)
	}

	items := []map[string]types.AttributeValue{}
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", s.config.TableName, err)
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

// Increment atomically adds delta to the count attribute of a record. A
// missing record or attribute starts from zero.
func (s *Store) Increment(ctx context.Context, pk, sk string, delta int64) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.config.TableName),
		Key:              key(pk, sk),
		UpdateExpression: aws.String("ADD #count :delta"),
		ExpressionAttributeNames: map[string]string{
			"#count": CountAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("update item in %s: %w", s.config.TableName, err)
	}
	return nil
}

// Get retrieves a record by key, returning ErrNotFound if it is missing.
func (s *Store) Get(ctx context.Context, pk, sk string) (map[string]types.AttributeValue, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       key(pk, sk),
	}
	if s.config.ConsistentReads {
		input.ConsistentRead = aws.Bool(true)
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get item from %s: %w", s.config.TableName, err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}
	return result.Item, nil
}

// Counter returns the current count of a list. It returns ErrNotFound if no
// event has been applied to the list yet.
func (s *Store) Counter(ctx context.Context, listID string) (int64, error) {
	k := keys.Counter(listID)
	item, err := s.Get(ctx, k.Partition, k.Sort)
	if err != nil {
		return 0, err
	}
	return decodeCounter(item)
}

// counterRecord is the decoded form of a counter record.
type counterRecord struct {
	PK    string `dynamodbav:"PK"`
	SK    string `dynamodbav:"SK"`
	Count int64  `dynamodbav:"count"`
}

func decodeCounter(item map[string]types.AttributeValue) (int64, error) {
	if _, ok := item[CountAttr].(*types.AttributeValueMemberN); !ok {
		return 0, ErrInvalidCounter
	}

	var rec counterRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCounter, err)
	}
	return rec.Count, nil
}
