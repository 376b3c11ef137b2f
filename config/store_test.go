package config

import (
	"fmt"
	"testing"

	testLogrus "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestStoreValidateAndLog(t *testing.T) {
	hook := testLogrus.NewGlobal()
	defer hook.Reset()

	validDynamo := DynamoDB{
		Table:            "SkierLiftRidesData_Final",
		ResortDayIndex:   "resortID-dayID-index",
		SkierResortIndex: "skierID-resortID-index",
		Region:           "us-west-2",
	}

	testCases := []struct {
		desc          string
		inCfg         Store
		expectedError error
	}{
		{
			desc:  "memory store",
			inCfg: Store{Type: StoreMemory},
		},
		{
			desc:  "dynamodb store",
			inCfg: Store{Type: StoreDynamoDB, DynamoDB: validDynamo},
		},
		{
			desc: "dynamodb store without table",
			inCfg: Store{Type: StoreDynamoDB, DynamoDB: DynamoDB{
				ResortDayIndex:   "a",
				SkierResortIndex: "b",
				Region:           "us-west-2",
			}},
			expectedError: fmt.Errorf("config.store.dynamodb.table can't be empty"),
		},
		{
			desc: "dynamodb store without skier index",
			inCfg: Store{Type: StoreDynamoDB, DynamoDB: DynamoDB{
				Table:          "t",
				ResortDayIndex: "a",
				Region:         "us-west-2",
			}},
			expectedError: fmt.Errorf("config.store.dynamodb.resort_day_index and config.store.dynamodb.skier_resort_index are both required"),
		},
		{
			desc:          "unknown store",
			inCfg:         Store{Type: "postgres"},
			expectedError: fmt.Errorf(`invalid config.store.type: postgres. It must be "dynamodb" or "memory".`),
		},
		{
			desc:          "negative retries",
			inCfg:         Store{Type: StoreMemory, Retry: Retry{MaxRetries: -1}},
			expectedError: fmt.Errorf("invalid config.store.retry.max_retries: -1. It can't be negative"),
		},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expectedError, test.inCfg.validateAndLog(), test.desc)
	}
}

func TestDynamoDBStaticCredentials(t *testing.T) {
	assert.False(t, (&DynamoDB{}).HasStaticCredentials())
	assert.False(t, (&DynamoDB{AccessKey: "a"}).HasStaticCredentials())
	assert.True(t, (&DynamoDB{AccessKey: "a", SecretKey: "b"}).HasStaticCredentials())
}
