package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

const hashKey = "gameNumber"

// GameRepo keeps game records in a single DynamoDB table keyed by game number.
type GameRepo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewGameRepo(client dynamodbiface.DynamoDBAPI, table string) *GameRepo {
	return &GameRepo{client: client, table: table}
}

// NewClient builds a DynamoDB client from the shared AWS config.
func NewClient(region string) (*dynamodb.DynamoDB, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(region)},
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return dynamodb.New(sess), nil
}

// EnsureTable creates the table on first start.
func (r *GameRepo) EnsureTable(ctx context.Context) error {
	_, err := r.client.DescribeTableWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	})
	if err == nil {
		return nil
	}
	var aerr awserr.Error
	if !errors.As(err, &aerr) || aerr.Code() != dynamodb.ErrCodeResourceNotFoundException {
		return formatError("describe table", err)
	}

	_, err = r.client.CreateTableWithContext(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(r.table),
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String(hashKey), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: aws.String(dynamodb.KeyTypeHash)},
		},
	})
	if err != nil {
		return formatError("create table", err)
	}
	// the table stays CREATING for a while and rejects writes until ACTIVE
	if err := r.client.WaitUntilTableExistsWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	}); err != nil {
		return formatError("wait for table", err)
	}
	log.Info().Str("component", "dynamodb").Str("table", r.table).Msg("table created")
	return nil
}

func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	item, err := dynamodbattribute.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", rec.GameNumber, err)
	}
	_, err = r.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + hashKey + ")"),
	})
	var aerr awserr.Error
	if errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		// already stored; the first record wins
		return nil
	}
	if err != nil {
		return formatError("put game "+rec.GameNumber, err)
	}
	return nil
}

// ListGames scans the whole table and orders the records oldest first.
func (r *GameRepo) ListGames(ctx context.Context) ([]domain.GameRecord, error) {
	records := []domain.GameRecord{}
	var decodeErr error
	err := r.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)},
		func(page *dynamodb.ScanOutput, lastPage bool) bool {
			var batch []domain.GameRecord
			if decodeErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &batch); decodeErr != nil {
				return false
			}
			records = append(records, batch...)
			return true
		})
	if err != nil {
		return nil, formatError("scan games", err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal games: %w", decodeErr)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].GameDate != records[j].GameDate {
			return records[i].GameDate < records[j].GameDate
		}
		return records[i].GameNumber < records[j].GameNumber
	})
	return records, nil
}

func (r *GameRepo) GetGame(ctx context.Context, gameNumber string) (domain.GameRecord, error) {
	out, err := r.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			hashKey: {S: aws.String(gameNumber)},
		},
	})
	if err != nil {
		return domain.GameRecord{}, formatError("get game "+gameNumber, err)
	}
	if len(out.Item) == 0 {
		return domain.GameRecord{}, domain.ErrRecordNotFound
	}

	var rec domain.GameRecord
	if err := dynamodbattribute.UnmarshalMap(out.Item, &rec); err != nil {
		return domain.GameRecord{}, fmt.Errorf("unmarshal game %s: %w", gameNumber, err)
	}
	return rec, nil
}

// formatError keeps the DynamoDB error code next to the operation.
func formatError(op string, err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return fmt.Errorf("%s: %s: %w", op, aerr.Code(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
