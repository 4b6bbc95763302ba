package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/iamasit07/connect4-toototto/internal/domain"
)

// fakeDynamo keeps items in memory and serves the calls GameRepo makes.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	order   []string
	tables  map[string]bool
	created int
	waited  int
}

func newFake() *fakeDynamo {
	return &fakeDynamo{
		items:  map[string]map[string]*dynamodb.AttributeValue{},
		tables: map[string]bool{},
	}
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	key := *in.Item[hashKey].S
	if _, ok := f.items[key]; ok && in.ConditionExpression != nil {
		return nil, awserr.New(dynamodb.ErrCodeConditionalCheckFailedException, "item exists", nil)
	}
	f.items[key] = in.Item
	f.order = append(f.order, key)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key[hashKey].S]}, nil
}

// ScanPagesWithContext serves one item per page to exercise paging.
func (f *fakeDynamo) ScanPagesWithContext(_ aws.Context, _ *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool, _ ...request.Option) error {
	for i, key := range f.order {
		page := &dynamodb.ScanOutput{Items: []map[string]*dynamodb.AttributeValue{f.items[key]}}
		if !fn(page, i == len(f.order)-1) {
			break
		}
	}
	return nil
}

func (f *fakeDynamo) DescribeTableWithContext(_ aws.Context, in *dynamodb.DescribeTableInput, _ ...request.Option) (*dynamodb.DescribeTableOutput, error) {
	if !f.tables[*in.TableName] {
		return nil, awserr.New(dynamodb.ErrCodeResourceNotFoundException, "no table", nil)
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func (f *fakeDynamo) CreateTableWithContext(_ aws.Context, in *dynamodb.CreateTableInput, _ ...request.Option) (*dynamodb.CreateTableOutput, error) {
	f.tables[*in.TableName] = true
	f.created++
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *fakeDynamo) WaitUntilTableExistsWithContext(_ aws.Context, in *dynamodb.DescribeTableInput, _ ...request.WaiterOption) error {
	if !f.tables[*in.TableName] {
		return awserr.New(request.WaiterResourceNotReadyErrorCode, "table never became active", nil)
	}
	f.waited++
	return nil
}

func TestSaveAndGet(t *testing.T) {
	repo := NewGameRepo(newFake(), "games")
	ctx := context.Background()
	rec := domain.GameRecord{GameNumber: "g1", GameType: domain.Connect4, Player1Name: "alice", Player2Name: "bob", WinnerName: "bob", GameDate: 1700000000000}

	if err := repo.SaveGame(ctx, rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	dup := rec
	dup.WinnerName = "alice"
	if err := repo.SaveGame(ctx, dup); err != nil {
		t.Fatalf("SaveGame duplicate: %v", err)
	}

	got, err := repo.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got != rec {
		t.Fatalf("expected first record %+v, got %+v", rec, got)
	}
	if _, err := repo.GetGame(ctx, "missing"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListGamesOldestFirst(t *testing.T) {
	repo := NewGameRepo(newFake(), "games")
	ctx := context.Background()
	for _, rec := range []domain.GameRecord{
		{GameNumber: "c", GameDate: 30},
		{GameNumber: "a", GameDate: 10},
		{GameNumber: "b", GameDate: 20},
	} {
		if err := repo.SaveGame(ctx, rec); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	got, err := repo.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(got) != 3 || got[0].GameNumber != "a" || got[2].GameNumber != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestEnsureTable(t *testing.T) {
	fake := newFake()
	repo := NewGameRepo(fake, "games")
	for i := 0; i < 2; i++ {
		if err := repo.EnsureTable(context.Background()); err != nil {
			t.Fatalf("EnsureTable: %v", err)
		}
	}
	if fake.created != 1 {
		t.Fatalf("expected one create, got %d", fake.created)
	}
	if fake.waited != 1 {
		t.Fatalf("expected to wait for the new table once, got %d", fake.waited)
	}
}
