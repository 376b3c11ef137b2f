package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skierstats/skier-stats/config"
)

// fakeDynamoDB serves QueryWithContext from canned pages. Any other
// DynamoDB API call panics on the nil embedded interface.
type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	pages  []*dynamodb.QueryOutput
	err    error
	inputs []dynamodb.QueryInput
}

func (f *fakeDynamoDB) QueryWithContext(ctx aws.Context, input *dynamodb.QueryInput, opts ...request.Option) (*dynamodb.QueryOutput, error) {
	f.inputs = append(f.inputs, *input)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

var testDynamoDBConfig = config.DynamoDB{
	Table:            "SkierLiftRidesData_Final",
	ResortDayIndex:   "resortID-dayID-index",
	SkierResortIndex: "skierID-resortID-index",
	Region:           "us-west-2",
}

func ride(skier, lift string, vertical *dynamodb.AttributeValue) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"skierID":  {N: aws.String(skier)},
		"resortID": {N: aws.String("1")},
		"seasonID": {S: aws.String("2019")},
		"dayID":    {N: aws.String("5")},
		"liftID":   {N: aws.String(lift)},
		"time":     {N: aws.String("217")},
	}
	if vertical != nil {
		item["vertical"] = vertical
	}
	return item
}

func TestDynamoDBQueryPaginates(t *testing.T) {
	fake := &fakeDynamoDB{pages: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]*dynamodb.AttributeValue{ride("42", "10", nil)},
			LastEvaluatedKey: map[string]*dynamodb.AttributeValue{"skierID": {N: aws.String("42")}},
		},
		{
			Items: []map[string]*dynamodb.AttributeValue{ride("7", "3", &dynamodb.AttributeValue{N: aws.String("400")})},
		},
	}}
	s := NewDynamoDBStoreWithClient(fake, testDynamoDBConfig)

	records, err := s.Query(context.Background(), Query{Index: ResortDayIndex, ResortID: 1, SeasonID: 2019, DayID: 5})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(42), records[0].SkierID)
	assert.Equal(t, int64(2019), records[0].SeasonID)
	assert.Equal(t, int64(100), records[0].Vertical())
	assert.Equal(t, int64(400), records[1].Vertical())

	require.Len(t, fake.inputs, 2)
	assert.Nil(t, fake.inputs[0].ExclusiveStartKey)
	assert.Equal(t, "42", *fake.inputs[1].ExclusiveStartKey["skierID"].N)
	assert.Equal(t, "SkierLiftRidesData_Final", *fake.inputs[0].TableName)
	assert.Equal(t, "resortID-dayID-index", *fake.inputs[0].IndexName)
	assert.Equal(t, "resortID = :resort AND dayID = :day", *fake.inputs[0].KeyConditionExpression)
	assert.Equal(t, "seasonID = :season", *fake.inputs[0].FilterExpression)
	assert.Equal(t, "5", *fake.inputs[0].ExpressionAttributeValues[":day"].N)
}

func TestDynamoDBQueryInputs(t *testing.T) {
	s := NewDynamoDBStoreWithClient(&fakeDynamoDB{}, testDynamoDBConfig)

	input, err := s.queryInput(Query{Index: ResortDayIndex, ResortID: 1, SeasonID: 2019, DayID: 5, SkierID: 42, FilterSkier: true})
	require.NoError(t, err)
	assert.Equal(t, "seasonID = :season AND skierID = :skier", *input.FilterExpression)
	assert.Equal(t, "42", *input.ExpressionAttributeValues[":skier"].N)

	input, err = s.queryInput(Query{Index: SkierResortIndex, ResortID: 1, SeasonID: 2019, SkierID: 42})
	require.NoError(t, err)
	assert.Equal(t, "skierID-resortID-index", *input.IndexName)
	assert.Equal(t, "skierID = :skier AND resortID = :resort", *input.KeyConditionExpression)
	assert.Equal(t, "seasonID = :season", *input.FilterExpression)

	_, err = s.queryInput(Query{Index: "other"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestDynamoDBSkipsMalformedItems(t *testing.T) {
	broken := ride("42", "10", nil)
	delete(broken, "dayID")
	garbled := ride("42", "ten", nil)

	fake := &fakeDynamoDB{pages: []*dynamodb.QueryOutput{
		{Items: []map[string]*dynamodb.AttributeValue{broken, garbled, ride("7", "3", nil)}},
	}}
	s := NewDynamoDBStoreWithClient(fake, testDynamoDBConfig)

	records, err := s.Query(context.Background(), Query{Index: ResortDayIndex, ResortID: 1, SeasonID: 2019, DayID: 5})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].SkierID)
}

func TestDynamoDBConvertError(t *testing.T) {
	testCases := []struct {
		desc     string
		in       error
		expected error
	}{
		{"throughput", awserr.New(dynamodb.ErrCodeProvisionedThroughputExceededException, "slow down", nil), ErrStoreThrottled},
		{"request limit", awserr.New(dynamodb.ErrCodeRequestLimitExceeded, "slow down", nil), ErrStoreThrottled},
		{"throttling", awserr.New("ThrottlingException", "slow down", nil), ErrStoreThrottled},
		{"missing table", awserr.New(dynamodb.ErrCodeResourceNotFoundException, "no table", nil), ErrStoreTableNotFound},
		{"internal", awserr.New(dynamodb.ErrCodeInternalServerError, "boom", nil), ErrStoreInternal},
		{"canceled", awserr.New(request.CanceledErrorCode, "canceled", nil), ErrStoreInternal},
		{"plain error", errors.New("connection refused"), ErrStoreInternal},
	}

	for _, tc := range testCases {
		fake := &fakeDynamoDB{err: tc.in}
		s := NewDynamoDBStoreWithClient(fake, testDynamoDBConfig)

		_, err := s.Query(context.Background(), Query{Index: SkierResortIndex, ResortID: 1, SeasonID: 2019, SkierID: 42})
		assert.ErrorIs(t, err, tc.expected, tc.desc)
	}
}

func TestNewDynamoDBStore(t *testing.T) {
	cfg := testDynamoDBConfig
	cfg.Endpoint = "http://localhost:8000"
	cfg.AccessKey = "key"
	cfg.SecretKey = "secret"

	s, err := NewDynamoDBStore(cfg)
	require.NoError(t, err)
	assert.Equal(t, "SkierLiftRidesData_Final", s.table)
	assert.Equal(t, "skierID-resortID-index", s.indexes[SkierResortIndex])
}
