package repositories

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

type DynamoDBAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoDBClient tracks enrichment job status keyed by job_id.
type DynamoDBClient struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
}

func NewDynamoDBClient(client DynamoDBAPI, tableName string, logger *logrus.Logger) *DynamoDBClient {
	return &DynamoDBClient{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (d *DynamoDBClient) UpdateJobStatus(ctx context.Context, jobID string, kind string, status string) error {
	if d.tableName == "" {
		d.logger.WithField("job_id", jobID).Debug("DYNAMODB_TABLE not configured, skipping status update")
		return nil
	}

	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"job_id": &types.AttributeValueMemberS{Value: jobID},
		},
		UpdateExpression: aws.String("SET #s = :status, #k = :kind"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
			"#k": "kind",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
			":kind":   &types.AttributeValueMemberS{Value: kind},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update job status in DynamoDB for job %s: %w", jobID, err)
	}

	d.logger.WithFields(logrus.Fields{"job_id": jobID, "status": status}).Debug("Updated job status")
	return nil
}

// UpdateJobStatusFull records the final status with its completion time and,
// for failed jobs, the error message.
func (d *DynamoDBClient) UpdateJobStatusFull(ctx context.Context, jobID string, status string, completedAt string, errMsg string) error {
	if d.tableName == "" {
		return nil
	}

	expr := "SET #s = :status, completed_at = :cat"
	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
		":cat":    &types.AttributeValueMemberS{Value: completedAt},
	}
	if errMsg != "" {
		expr += ", error_message = :err"
		values[":err"] = &types.AttributeValueMemberS{Value: errMsg}
	}

	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"job_id": &types.AttributeValueMemberS{Value: jobID},
		},
		UpdateExpression: aws.String(expr),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("failed to update job status full in DynamoDB for job %s: %w", jobID, err)
	}

	d.logger.WithFields(logrus.Fields{"job_id": jobID, "status": status, "completed_at": completedAt}).Info("Job finished")
	return nil
}
