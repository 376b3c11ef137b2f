package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	log "github.com/sirupsen/logrus"

	"github.com/skierstats/skier-stats/config"
)

const (
	attrSkierID  = "skierID"
	attrResortID = "resortID"
	attrSeasonID = "seasonID"
	attrDayID    = "dayID"
	attrLiftID   = "liftID"
	attrTime     = "time"
	attrVertical = "vertical"
)

// DynamoDBStore queries the lift ride table through its two secondary indexes.
type DynamoDBStore struct {
	client  dynamodbiface.DynamoDBAPI
	table   string
	indexes map[Index]string
}

func NewDynamoDBStore(cfg config.DynamoDB) (*DynamoDBStore, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	if cfg.HasStaticCredentials() {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	log.Infof("Querying DynamoDB table %s in %s", cfg.Table, cfg.Region)
	return NewDynamoDBStoreWithClient(dynamodb.New(sess), cfg), nil
}

func NewDynamoDBStoreWithClient(client dynamodbiface.DynamoDBAPI, cfg config.DynamoDB) *DynamoDBStore {
	return &DynamoDBStore{
		client: client,
		table:  cfg.Table,
		indexes: map[Index]string{
			ResortDayIndex:   cfg.ResortDayIndex,
			SkierResortIndex: cfg.SkierResortIndex,
		},
	}
}

// Query walks every page of the index partition selected by q.
func (s *DynamoDBStore) Query(ctx context.Context, q Query) ([]Record, error) {
	input, err := s.queryInput(q)
	if err != nil {
		return nil, err
	}

	var records []Record
	var lastEvaluatedKey map[string]*dynamodb.AttributeValue
	for page := 1; ; page++ {
		if len(lastEvaluatedKey) != 0 {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		resp, err := s.client.QueryWithContext(ctx, input)
		if err != nil {
			log.WithFields(log.Fields{"index": *input.IndexName, "page": page}).Errorf("DynamoDB query failed: %v", err)
			return nil, convertError(err)
		}

		for _, item := range resp.Items {
			r, err := itemToRecord(item)
			if err != nil {
				log.WithField("index", *input.IndexName).Warnf("Skipping malformed lift ride: %v", err)
				continue
			}
			records = append(records, r)
		}

		lastEvaluatedKey = resp.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			log.WithFields(log.Fields{"index": *input.IndexName, "pages": page}).Debugf("DynamoDB query returned %d lift rides", len(records))
			return records, nil
		}
	}
}

func (s *DynamoDBStore) queryInput(q Query) (*dynamodb.QueryInput, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	values := map[string]*dynamodb.AttributeValue{
		":resort": numberValue(q.ResortID),
		":season": numberValue(q.SeasonID),
	}
	input := &dynamodb.QueryInput{
		TableName: aws.String(s.table),
		IndexName: aws.String(s.indexes[q.Index]),
	}

	switch q.Index {
	case ResortDayIndex:
		values[":day"] = numberValue(q.DayID)
		input.KeyConditionExpression = aws.String(attrResortID + " = :resort AND " + attrDayID + " = :day")
		filter := attrSeasonID + " = :season"
		if q.FilterSkier {
			values[":skier"] = numberValue(q.SkierID)
			filter += " AND " + attrSkierID + " = :skier"
		}
		input.FilterExpression = aws.String(filter)
	case SkierResortIndex:
		values[":skier"] = numberValue(q.SkierID)
		input.KeyConditionExpression = aws.String(attrSkierID + " = :skier AND " + attrResortID + " = :resort")
		input.FilterExpression = aws.String(attrSeasonID + " = :season")
	}
	input.ExpressionAttributeValues = values
	return input, nil
}

func numberValue(v int64) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(v, 10))}
}

func itemToRecord(item map[string]*dynamodb.AttributeValue) (Record, error) {
	var r Record
	required := []struct {
		name string
		dst  *int64
	}{
		{attrSkierID, &r.SkierID},
		{attrResortID, &r.ResortID},
		{attrSeasonID, &r.SeasonID},
		{attrDayID, &r.DayID},
	}
	for _, f := range required {
		v, ok, err := intAttr(item, f.name)
		if err != nil {
			return r, err
		}
		if !ok {
			return r, fmt.Errorf("attribute %s missing", f.name)
		}
		*f.dst = v
	}

	var err error
	if r.LiftID, _, err = intAttr(item, attrLiftID); err != nil {
		return r, err
	}
	if r.Time, _, err = intAttr(item, attrTime); err != nil {
		return r, err
	}
	vertical, ok, err := intAttr(item, attrVertical)
	if err != nil {
		return r, err
	}
	if ok {
		r.RideVertical = &vertical
	}
	return r, nil
}

// intAttr reads a numeric attribute stored either as a number or as a string.
func intAttr(item map[string]*dynamodb.AttributeValue, name string) (int64, bool, error) {
	attr, ok := item[name]
	if !ok || attr == nil {
		return 0, false, nil
	}

	var raw *string
	switch {
	case attr.N != nil:
		raw = attr.N
	case attr.S != nil:
		raw = attr.S
	default:
		return 0, false, nil
	}

	v, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("attribute %s: %w", name, err)
	}
	return v, true, nil
}

func convertError(err error) error {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return fmt.Errorf("%w: %v", ErrStoreInternal, err)
	}

	switch aerr.Code() {
	case dynamodb.ErrCodeProvisionedThroughputExceededException,
		dynamodb.ErrCodeRequestLimitExceeded,
		dynamodb.ErrCodeLimitExceededException,
		"ThrottlingException":
		return fmt.Errorf("%w: %s", ErrStoreThrottled, aerr.Message())
	case dynamodb.ErrCodeResourceNotFoundException:
		return fmt.Errorf("%w: %s", ErrStoreTableNotFound, aerr.Message())
	case request.CanceledErrorCode:
		return fmt.Errorf("%w: query canceled", ErrStoreInternal)
	}
	return fmt.Errorf("%w: %s: %s", ErrStoreInternal, aerr.Code(), aerr.Message())
}
