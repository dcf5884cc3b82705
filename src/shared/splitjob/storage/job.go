package jobstorage

import (
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
	dynamolib "github.com/veedubyou/stem-splitter-be/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
)

const (
	idKey = "id"
)

var _ dynamo.ItemUnmarshaler = &dbSplitJob{}

type dbSplitJob map[string]any

func (d *dbSplitJob) UnmarshalDynamoItem(dynamoItem map[string]*dynamodb.AttributeValue) error {
	if err := dynamolib.ValidateStringField(dynamoItem, idKey); err != nil {
		return mark.Wrap(err, JobUnmarshalMark, "Failed to validate id field")
	}

	plainMap := map[string]any{}
	err := dynamo.UnmarshalItem(dynamoItem, &plainMap)
	if err != nil {
		return mark.Wrap(err, JobUnmarshalMark, "Failed to unmarshal dynamo item")
	}

	*d = plainMap

	return nil
}
