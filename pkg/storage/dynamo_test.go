package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/go-cmp/cmp"

	"github.com/launchsync/launchsync/pkg/launch"
)

type mockDynamoDB struct {
	pages      [][]map[string]types.AttributeValue
	scanErr    error
	writeErr   error
	unprocess  int
	scanInputs []*dynamodb.ScanInput
	batches    [][]types.WriteRequest
}

func (md *mockDynamoDB) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {

	md.scanInputs = append(md.scanInputs, in)
	if md.scanErr != nil {
		return nil, md.scanErr
	}

	n := 0
	if in.ExclusiveStartKey != nil {
		n, _ = strconv.Atoi(in.ExclusiveStartKey["page"].(*types.AttributeValueMemberN).Value)
	}

	out := &dynamodb.ScanOutput{}
	if n < len(md.pages) {
		out.Items = md.pages[n]
	}
	if n+1 < len(md.pages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"page": &types.AttributeValueMemberN{Value: strconv.Itoa(n + 1)},
		}
	}
	return out, nil
}

func (md *mockDynamoDB) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {

	if md.writeErr != nil {
		return nil, md.writeErr
	}

	reqs := in.RequestItems["launches"]
	md.batches = append(md.batches, reqs)

	out := &dynamodb.BatchWriteItemOutput{}
	if md.unprocess > 0 {
		md.unprocess--
		out.UnprocessedItems = map[string][]types.WriteRequest{"launches": reqs[:1]}
	}
	return out, nil
}

func getMockDB(md *mockDynamoDB) *Dynamo {
	return &Dynamo{DynamoDB: md, Table: "launches"}
}

func marshalItems(t *testing.T, items ...launch.Item) []map[string]types.AttributeValue {
	t.Helper()
	var out []map[string]types.AttributeValue
	for _, it := range items {
		av, err := attributevalue.MarshalMap(it)
		if err != nil {
			t.Fatalf("could not marshal item: %v", err)
		}
		out = append(out, av)
	}
	return out
}

func makeItems(n int, prefix string) []launch.Item {
	var items []launch.Item
	for i := 0; i < n; i++ {
		items = append(items, launch.Item{
			PK:     prefix + strconv.Itoa(i),
			SK:     strconv.Itoa(1700000000 + i),
			Status: launch.StatusSuccess,
		})
	}
	return items
}

func TestDynamoScan(t *testing.T) {

	name := "Falcon 9"
	first := launch.Item{PK: "launch-1", SK: "1700000000", RocketName: &name, Status: launch.StatusSuccess, PayloadNames: []string{"A"}}
	second := launch.Item{PK: "launch-2", SK: "1710000000", Status: launch.StatusUpcoming}

	md := &mockDynamoDB{pages: [][]map[string]types.AttributeValue{
		marshalItems(t, first),
		marshalItems(t, second),
	}}
	d := getMockDB(md)
	d.PageLimit = 1

	page, err := d.Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]launch.Item{first}, page.Items); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
	if page.Next == nil {
		t.Fatalf("expected a cursor after the first page")
	}
	if aws.ToInt32(md.scanInputs[0].Limit) != 1 {
		t.Errorf("expected limit 1, got %v", md.scanInputs[0].Limit)
	}
	if aws.ToString(md.scanInputs[0].TableName) != "launches" {
		t.Errorf("wrong table: %v", aws.ToString(md.scanInputs[0].TableName))
	}

	page, err = d.Scan(context.Background(), page.Next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]launch.Item{second}, page.Items); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
	if page.Next != nil {
		t.Errorf("expected no cursor on the last page, got %v", page.Next)
	}
}

func TestDynamoReadAll(t *testing.T) {

	tt := []struct {
		name  string
		pages [][]launch.Item
		err   error
		want  int
	}{
		{name: "empty", pages: nil, want: 0},
		{name: "single", pages: [][]launch.Item{makeItems(3, "a")}, want: 3},
		{name: "several", pages: [][]launch.Item{makeItems(3, "a"), makeItems(2, "b"), makeItems(4, "c")}, want: 9},
		{name: "empty_middle_page", pages: [][]launch.Item{makeItems(1, "a"), nil, makeItems(1, "c")}, want: 2},
		{name: "unhappy", pages: [][]launch.Item{makeItems(1, "a")}, err: errors.New("throttled")},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {

			md := &mockDynamoDB{scanErr: tc.err}
			for _, p := range tc.pages {
				md.pages = append(md.pages, marshalItems(t, p...))
			}

			items, err := ReadAll(context.Background(), getMockDB(md))
			if tc.err != nil {
				var re *ReadError
				if !errors.As(err, &re) {
					t.Fatalf("expected a read error, got %v", err)
				}
				if items != nil {
					t.Errorf("expected no partial results, got %v", len(items))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tc.want {
				t.Errorf("expected %v items, got %v", tc.want, len(items))
			}
			pages := len(tc.pages)
			if pages == 0 {
				pages = 1
			}
			if len(md.scanInputs) != pages {
				t.Errorf("expected %v scans, got %v", pages, len(md.scanInputs))
			}
		})
	}
}

func TestDynamoBatchUpsert(t *testing.T) {

	tt := []struct {
		name      string
		items     []launch.Item
		unprocess int
		writeErr  error
		batches   int
		written   int
		err       string
	}{
		{name: "none", items: nil, batches: 0},
		{name: "one_chunk", items: makeItems(3, "a"), batches: 1, written: 3},
		{name: "chunked", items: makeItems(60, "a"), batches: 3, written: 60},
		{name: "duplicates", items: append(makeItems(3, "a"), makeItems(2, "a")...), batches: 1, written: 3},
		{name: "unprocessed_resent", items: makeItems(2, "a"), unprocess: 1, batches: 2, written: 3},
		{name: "unprocessed_forever", items: makeItems(2, "a"), unprocess: maxRounds, err: "unprocessed items remain"},
		{name: "unhappy", items: makeItems(2, "a"), writeErr: errors.New("access denied"), err: "DynamoDB error: could not put to db: access denied"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {

			md := &mockDynamoDB{unprocess: tc.unprocess, writeErr: tc.writeErr}
			err := getMockDB(md).BatchUpsert(context.Background(), tc.items)
			if tc.err != "" {
				var we *WriteError
				if !errors.As(err, &we) {
					t.Fatalf("expected a write error, got %v", err)
				}
				if msg := err.Error(); !strings.Contains(msg, tc.err) {
					t.Errorf("expected error %q, got: %q", tc.err, msg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(md.batches) != tc.batches {
				t.Errorf("expected %v batches, got %v", tc.batches, len(md.batches))
			}
			written := 0
			for _, b := range md.batches {
				if len(b) > maxBatch {
					t.Errorf("batch of %v exceeds %v", len(b), maxBatch)
				}
				written += len(b)
			}
			if written != tc.written {
				t.Errorf("expected %v put requests, got %v", tc.written, written)
			}
		})
	}
}

func TestDynamoBatchUpsertLastWins(t *testing.T) {

	old := "Old Mission"
	fresh := "New Mission"
	items := []launch.Item{
		{PK: "launch-1", SK: "1700000000", MissionName: &old, Status: launch.StatusUpcoming},
		{PK: "launch-2", SK: "1700000001", Status: launch.StatusFailed},
		{PK: "launch-1", SK: "1700000000", MissionName: &fresh, Status: launch.StatusSuccess},
	}

	md := &mockDynamoDB{}
	if err := getMockDB(md).BatchUpsert(context.Background(), items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []launch.Item
	for _, req := range md.batches[0] {
		var it launch.Item
		if err := attributevalue.UnmarshalMap(req.PutRequest.Item, &it); err != nil {
			t.Fatalf("could not unmarshal put request: %v", err)
		}
		got = append(got, it)
	}

	want := []launch.Item{items[2], items[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("put requests mismatch (-want +got):\n%s", diff)
	}
}

func TestItemAttributes(t *testing.T) {

	av := marshalItems(t, launch.Item{PK: "launch-1", SK: "1700000000", Status: launch.StatusFailed})[0]

	if _, ok := av["payload_names"]; ok {
		t.Errorf("expected no payload_names attribute for an item without payloads")
	}
	if _, ok := av["rocket_name"].(*types.AttributeValueMemberNULL); !ok {
		t.Errorf("expected rocket_name to be stored as NULL, got %T", av["rocket_name"])
	}
	if s, ok := av["status"].(*types.AttributeValueMemberS); !ok || s.Value != "failed" {
		t.Errorf("expected status failed, got %v", av["status"])
	}
}
