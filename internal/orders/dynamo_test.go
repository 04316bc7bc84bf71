package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

// mockDynamo is a minimal in-process stand-in for the DynamoDB client.
// Items are keyed by the "id" attribute. Only the expressions the store
// actually issues are understood. A non-zero pageSize makes Scan page
// the way DynamoDB does: the size limit applies before the filter, so a
// page can come back empty with LastEvaluatedKey still set.
type mockDynamo struct {
	mu        sync.Mutex
	items     map[string]map[string]types.AttributeValue
	pageSize  int
	scanCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemID(attrs map[string]types.AttributeValue) (string, error) {
	v, ok := attrs["id"]
	if !ok {
		return "", errors.New("no id attribute")
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("id is not a string")
	}
	return s.Value, nil
}

func (m *mockDynamo) PutItem(_ context.Context, params *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := itemID(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(id)" {
		if _, exists := m.items[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(_ context.Context, params *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := itemID(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.items[pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(_ context.Context, params *dyn.UpdateItemInput, _ ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := itemID(params.Key)
	if err != nil {
		return nil, err
	}

	// counter bump: ADD seq :inc
	if strings.HasPrefix(*params.UpdateExpression, "ADD seq") {
		item, ok := m.items[pk]
		if !ok {
			item = map[string]types.AttributeValue{
				"id": params.Key["id"],
			}
		}
		seq := 0
		if v, ok := item["seq"].(*types.AttributeValueMemberN); ok {
			seq, _ = strconv.Atoi(v.Value)
		}
		seq++
		item["seq"] = &types.AttributeValueMemberN{Value: strconv.Itoa(seq)}
		m.items[pk] = item
		return &dyn.UpdateItemOutput{Attributes: item}, nil
	}

	item, exists := m.items[pk]
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(id)" && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":status"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":notes"]; ok {
		item["admin_notes"] = v
	}
	m.items[pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(_ context.Context, params *dyn.DeleteItemInput, _ ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := itemID(params.Key)
	if err != nil {
		return nil, err
	}
	if _, exists := m.items[pk]; !exists {
		if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(id)" {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	delete(m.items, pk)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) matchesFilter(params *dyn.ScanInput, item map[string]types.AttributeValue) bool {
	if params.FilterExpression == nil {
		return true
	}
	switch *params.FilterExpression {
	case "order_id = :oid":
		want := params.ExpressionAttributeValues[":oid"].(*types.AttributeValueMemberS).Value
		got, ok := item["order_id"].(*types.AttributeValueMemberS)
		return ok && got.Value == want
	case "attribute_exists(order_id)":
		_, ok := item["order_id"]
		return ok
	}
	return true
}

func (m *mockDynamo) Scan(_ context.Context, params *dyn.ScanInput, _ ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		last := params.ExclusiveStartKey["id"].(*types.AttributeValueMemberS).Value
		for i, k := range keys {
			if k == last {
				start = i + 1
				break
			}
		}
	}

	end := len(keys)
	if m.pageSize > 0 && start+m.pageSize < end {
		end = start + m.pageSize
	}

	out := &dyn.ScanOutput{}
	for _, k := range keys[start:end] {
		if m.matchesFilter(params, m.items[k]) {
			out.Items = append(out.Items, m.items[k])
		}
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

func TestDynamoStore_CreateAssignsSequentialCodes(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	first, err := s.Create(ctx, newOrder("A", "a@example.com", "p1"))
	require.NoError(t, err)
	second, err := s.Create(ctx, newOrder("B", "b@example.com", "p2"))
	require.NoError(t, err)

	year := time.Now().Year()
	require.Equal(t, fmt.Sprintf("ORD-%d-0001", year), first.OrderID)
	require.Equal(t, fmt.Sprintf("ORD-%d-0002", year), second.OrderID)
	require.Equal(t, StatusNew, first.Status)
}

func TestDynamoStore_GetRoundtrip(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	created, err := s.Create(ctx, NewOrder{
		FullName:       "Nino Beridze",
		Email:          "nino@example.com",
		ProjectName:    "CRM sync",
		AutomationType: TypeCRMIntegration,
		Integrations:   []string{"hubspot", "sheets"},
		HasCredentials: map[string]bool{"hubspot": true},
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created.OrderID, got.OrderID)
	require.Equal(t, created.FullName, got.FullName)
	require.Equal(t, created.Integrations, got.Integrations)
	require.Equal(t, created.HasCredentials, got.HasCredentials)

	missing, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDynamoStore_GetByOrderID(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	created, err := s.Create(ctx, newOrder("A", "a@example.com", "p1"))
	require.NoError(t, err)

	got, err := s.GetByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created.ID, got.ID)

	missing, err := s.GetByOrderID(ctx, "ORD-1999-0001")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDynamoStore_ListExcludesCounterAndSortsNewestFirst(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour)}
	i := 0
	s.nowFunc = func() time.Time { t := times[i]; i++; return t }

	a, err := s.Create(ctx, newOrder("A", "a@example.com", "p1"))
	require.NoError(t, err)
	b, err := s.Create(ctx, newOrder("B", "b@example.com", "p2"))
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2) // the counter item must not leak into the list
	require.Equal(t, b.ID, all[0].ID)
	require.Equal(t, a.ID, all[1].ID)
}

func TestDynamoStore_GetByOrderID_AcrossScanPages(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	var created []*Order
	for i := 0; i < 4; i++ {
		o, err := s.Create(ctx, newOrder(fmt.Sprintf("Customer %d", i), fmt.Sprintf("c%d@example.com", i), "p"))
		require.NoError(t, err)
		created = append(created, o)
	}

	// one raw item per page: filtered pages come back empty with
	// LastEvaluatedKey set, so a single Scan would report not-found
	mock.pageSize = 1
	mock.scanCalls = 0

	for _, want := range created {
		got, err := s.GetByOrderID(ctx, want.OrderID)
		require.NoError(t, err)
		require.NotNil(t, got, "order %s lost behind a pagination boundary", want.OrderID)
		require.Equal(t, want.ID, got.ID)
	}
	require.Greater(t, mock.scanCalls, len(created), "expected paged scans to follow LastEvaluatedKey")

	missing, err := s.GetByOrderID(ctx, "ORD-1999-0001")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDynamoStore_List_AcrossScanPages(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Create(ctx, newOrder(fmt.Sprintf("Customer %d", i), fmt.Sprintf("c%d@example.com", i), "p"))
		require.NoError(t, err)
	}

	mock.pageSize = 2

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5, "list must not truncate at the first scan page")
}

func TestDynamoStore_UpdateAndDelete(t *testing.T) {
	mock := newMockDynamo()
	s := NewDynamoStore(mock, "orders")
	ctx := context.Background()

	created, err := s.Create(ctx, newOrder("A", "a@example.com", "p1"))
	require.NoError(t, err)

	status := StatusInProgress
	notes := "kickoff call done"
	updated, err := s.Update(ctx, created.ID, OrderUpdate{Status: &status, AdminNotes: &notes})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, StatusInProgress, updated.Status)
	require.Equal(t, notes, updated.AdminNotes)
	require.Equal(t, created.OrderID, updated.OrderID)

	none, err := s.Update(ctx, "missing", OrderUpdate{Status: &status})
	require.NoError(t, err)
	require.Nil(t, none)

	ok, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
