package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"opsalert/internal/incidents"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// DynamoAPI is the subset of *dynamodb.Client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps one item per incident, keyed by incident_id.
type DynamoStore struct {
	client DynamoAPI
	table  string
}

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// Put writes the item unconditionally; an existing item with the same key is replaced.
func (s *DynamoStore) Put(ctx context.Context, inc *incidents.Incident) error {
	item, err := attributevalue.MarshalMap(inc)
	if err != nil {
		return fmt.Errorf("marshal incident: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*incidents.Incident, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"incident_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, incidents.ErrNotFound
	}
	var inc incidents.Incident
	if err := attributevalue.UnmarshalMap(out.Item, &inc); err != nil {
		return nil, fmt.Errorf("unmarshal incident: %w", err)
	}
	return &inc, nil
}

// List scans the table page by page until limit matching items are found
// or the table is exhausted, then orders them newest first. The ordering
// covers the returned items only; a scan has no global time order.
func (s *DynamoStore) List(ctx context.Context, f incidents.ListFilter) ([]incidents.Incident, error) {
	limit := clampLimit(f.Limit)
	in := &dynamodb.ScanInput{
		TableName: aws.String(s.table),
		Limit:     aws.Int32(int32(limit)),
	}
	var conds []string
	values := map[string]types.AttributeValue{}
	if f.Severity != "" {
		conds = append(conds, "ai_severity = :sev")
		values[":sev"] = &types.AttributeValueMemberS{Value: string(f.Severity)}
	}
	if f.Source != "" {
		conds = append(conds, "#src = :src")
		values[":src"] = &types.AttributeValueMemberS{Value: f.Source}
		// source is a DynamoDB reserved word.
		in.ExpressionAttributeNames = map[string]string{"#src": "source"}
	}
	if len(conds) > 0 {
		in.FilterExpression = aws.String(strings.Join(conds, " AND "))
		in.ExpressionAttributeValues = values
	}

	var res []incidents.Incident
	for {
		out, err := s.client.Scan(ctx, in)
		if err != nil {
			return nil, err
		}
		var page []incidents.Incident
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal incidents: %w", err)
		}
		res = append(res, page...)
		if len(res) >= limit || len(out.LastEvaluatedKey) == 0 {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
	if len(res) > limit {
		res = res[:limit]
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Timestamp.After(res[j].Timestamp)
	})
	return res, nil
}

func clampLimit(l int) int {
	if l <= 0 || l > maxListLimit {
		return defaultListLimit
	}
	return l
}

