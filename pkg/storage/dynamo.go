package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/launchsync/launchsync/pkg/launch"
)

// maxBatch is the most put requests DynamoDB accepts in one BatchWriteItem
const maxBatch = 25

// maxRounds bounds how often unprocessed items of a chunk are resubmitted
const maxRounds = 5

// DB implements db client methods
type DB interface {
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(context.Context, *dynamodb.BatchWriteItemInput, ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Dynamo is a launch table in DynamoDB
type Dynamo struct {
	DynamoDB DB
	Table    string
	// PageLimit caps items per scan page, zero leaves it to DynamoDB
	PageLimit int32
	Log       *slog.Logger
}

// DynamoOptions configures NewDynamo
type DynamoOptions struct {
	Region    string
	Endpoint  string
	Table     string
	PageLimit int32
	Log       *slog.Logger
}

// NewDynamo loads the default AWS config and returns a table client
func NewDynamo(ctx context.Context, opts DynamoOptions) (*Dynamo, error) {

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var loaders []func(*config.LoadOptions) error
	if opts.Region != "" {
		loaders = append(loaders, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	ddb := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	return &Dynamo{DynamoDB: ddb, Table: opts.Table, PageLimit: opts.PageLimit, Log: log}, nil
}

// Name returns the table name
func (d *Dynamo) Name() string {
	return d.Table
}

// Scan reads one page of the table, resuming after from
func (d *Dynamo) Scan(ctx context.Context, from Cursor) (Page, error) {

	input := &dynamodb.ScanInput{
		TableName: aws.String(d.Table),
	}
	if len(from) > 0 {
		input.ExclusiveStartKey = from
	}
	if d.PageLimit > 0 {
		input.Limit = aws.Int32(d.PageLimit)
	}

	resp, err := d.DynamoDB.Scan(ctx, input)
	if err != nil {
		return Page{}, fmt.Errorf("could not scan table: %w", err)
	}

	items := make([]launch.Item, 0, len(resp.Items))
	if err := attributevalue.UnmarshalListOfMaps(resp.Items, &items); err != nil {
		return Page{}, fmt.Errorf("could not unmarshal items: %w", err)
	}

	page := Page{Items: items}
	if len(resp.LastEvaluatedKey) > 0 {
		page.Next = resp.LastEvaluatedKey
	}
	return page, nil
}

// BatchUpsert puts items in chunks of 25, overwriting existing items with
// the same pk and sk. Items sharing a key within the batch collapse to the
// last one.
func (d *Dynamo) BatchUpsert(ctx context.Context, items []launch.Item) error {

	items = dedupe(items)

	for start := 0; start < len(items); start += maxBatch {
		end := start + maxBatch
		if end > len(items) {
			end = len(items)
		}

		reqs := make([]types.WriteRequest, 0, end-start)
		for _, it := range items[start:end] {
			av, err := attributevalue.MarshalMap(it)
			if err != nil {
				return &WriteError{Err: fmt.Errorf("could not marshal db record: %w", err)}
			}
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
		}

		if err := d.writeChunk(ctx, reqs); err != nil {
			return &WriteError{Err: err}
		}
	}

	d.log().Debug("items written to db", "table", d.Table, "count", len(items))
	return nil
}

// writeChunk writes one chunk, resubmitting whatever DynamoDB leaves unprocessed
func (d *Dynamo) writeChunk(ctx context.Context, reqs []types.WriteRequest) error {

	pending := map[string][]types.WriteRequest{d.Table: reqs}
	for round := 0; round < maxRounds; round++ {
		resp, err := d.DynamoDB.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("could not put to db: %w", err)
		}
		if len(resp.UnprocessedItems) == 0 || len(resp.UnprocessedItems[d.Table]) == 0 {
			return nil
		}
		d.log().Warn("unprocessed items writing to db", "table", d.Table, "count", len(resp.UnprocessedItems[d.Table]), "round", round+1)
		pending = resp.UnprocessedItems
	}
	return errors.New("could not put to db: unprocessed items remain")
}

func (d *Dynamo) log() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}
