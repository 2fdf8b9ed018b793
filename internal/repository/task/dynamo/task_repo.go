package dynamo

import (
	"context"
	"fmt"
	"time"

	"taskvault/internal/config"
	"taskvault/internal/logger"
	"taskvault/internal/models"
	repo "taskvault/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the slice of the DynamoDB client the storage uses. Tests inject
// a mock through NewWithClient.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type Storage struct {
	client API
	table  string
}

func New(ctx context.Context, cfg *config.DynamoConfig) (*Storage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		// dynamodb-local accepts any static credentials
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		logger.Error("Repository: loading AWS config failed", err)
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info("Repository: DynamoDB client created",
		zap.String("table", cfg.Table),
		zap.String("endpoint", cfg.Endpoint))
	return &Storage{client: client, table: cfg.Table}, nil
}

// NewWithClient builds a Storage around an existing client.
func NewWithClient(client API, table string) *Storage {
	return &Storage{client: client, table: table}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		logger.Error("Repository: health check failed", err, zap.String("table", s.table))
		return fmt.Errorf("describe table: %w", repo.ErrStoreUnavailable)
	}
	return nil
}

func (s *Storage) GetItem(ctx context.Context, id string) (*models.Task, error) {
	start := time.Now()

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       taskKey(id),
	})
	if err != nil {
		logger.Error("Repository: get item failed", err, zap.String("task_id", id))
		return nil, fmt.Errorf("get item %s: %w", id, repo.ErrStoreUnavailable)
	}

	if out.Item == nil {
		return nil, repo.ErrNotFound
	}

	var t models.Task
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		logger.Error("Repository: decoding item failed", err, zap.String("task_id", id))
		return nil, fmt.Errorf("decode item %s: %w", id, repo.ErrStoreUnavailable)
	}

	warnIfSlow("get item", start)
	return &t, nil
}

func (s *Storage) PutItem(ctx context.Context, t *models.Task) error {
	start := time.Now()

	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		logger.Error("Repository: encoding item failed", err, zap.String("task_id", t.ID))
		return fmt.Errorf("encode item %s: %w", t.ID, repo.ErrStoreUnavailable)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		logger.Error("Repository: put item failed", err, zap.String("task_id", t.ID))
		return fmt.Errorf("put item %s: %w", t.ID, repo.ErrStoreUnavailable)
	}

	warnIfSlow("put item", start)
	return nil
}

func (s *Storage) UpdateItem(ctx context.Context, id string, updates []repo.FieldUpdate) (*models.Task, error) {
	start := time.Now()

	if len(updates) == 0 {
		return nil, fmt.Errorf("update item %s: empty assignment set", id)
	}

	// The expression builder aliases every attribute name and value,
	// which keeps "text" and "done" clear of reserved words.
	var upd expression.UpdateBuilder
	for _, u := range updates {
		upd = upd.Set(expression.Name(u.Field), expression.Value(u.Value))
	}

	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		logger.Error("Repository: building update expression failed", err, zap.String("task_id", id))
		return nil, fmt.Errorf("build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       taskKey(id),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		logger.Error("Repository: update item failed", err, zap.String("task_id", id))
		return nil, fmt.Errorf("update item %s: %w", id, repo.ErrStoreUnavailable)
	}

	var t models.Task
	if err := attributevalue.UnmarshalMap(out.Attributes, &t); err != nil {
		logger.Error("Repository: decoding updated item failed", err, zap.String("task_id", id))
		return nil, fmt.Errorf("decode updated item %s: %w", id, repo.ErrStoreUnavailable)
	}

	warnIfSlow("update item", start)
	return &t, nil
}

func (s *Storage) ScanAll(ctx context.Context) ([]*models.Task, error) {
	start := time.Now()

	tasks := []*models.Task{}
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logger.Error("Repository: scan failed", err, zap.String("table", s.table))
			return nil, fmt.Errorf("scan: %w", repo.ErrStoreUnavailable)
		}

		var chunk []*models.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &chunk); err != nil {
			logger.Error("Repository: decoding scan page failed", err, zap.String("table", s.table))
			return nil, fmt.Errorf("decode scan page: %w", repo.ErrStoreUnavailable)
		}
		tasks = append(tasks, chunk...)
	}

	warnIfSlow("scan", start)
	return tasks, nil
}

func (s *Storage) DeleteItem(ctx context.Context, id string) error {
	start := time.Now()

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       taskKey(id),
	})
	if err != nil {
		logger.Error("Repository: delete item failed", err, zap.String("task_id", id))
		return fmt.Errorf("delete item %s: %w", id, repo.ErrStoreUnavailable)
	}

	warnIfSlow("delete item", start)
	return nil
}

func taskKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func warnIfSlow(op string, start time.Time) {
	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: slow operation",
			zap.String("operation", op),
			zap.Duration("ms", time.Since(start)))
	}
}
