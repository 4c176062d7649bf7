// Package memstore provides an in-memory store with the semantics of the
// DynamoDB store, for tests and local wiring.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/fargito/todos/internal/keys"
)

// CountAttr is the numeric attribute written by Increment.
const CountAttr = "count"

// Op names a store operation for error injection.
type Op string

const (
	OpPut       Op = "Put"
	OpDelete    Op = "DeleteReturningOld"
	OpQuery     Op = "QueryPrefix"
	OpIncrement Op = "Increment"
)

// Store is a partitioned, sort-key ordered record map guarded by a mutex.
// Each operation is atomic.
type Store struct {
	mu         sync.RWMutex
	partitions map[string]map[string]map[string]types.AttributeValue

	// Fail, when set, is consulted before each operation; a non-nil result
	// is returned instead of running it.
	Fail func(op Op, pk, sk string) error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		partitions: make(map[string]map[string]map[string]types.AttributeValue),
	}
}

func (s *Store) fail(op Op, pk, sk string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op, pk, sk)
}

// Put writes a record, replacing any record under the same key.
func (s *Store) Put(ctx context.Context, pk, sk string, attrs map[string]types.AttributeValue) error {
	if err := s.fail(OpPut, pk, sk); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.partition(pk)[sk] = clone(attrs)
	return nil
}

// DeleteReturningOld removes a record and returns its previous attributes,
// or nil if it did not exist.
func (s *Store) DeleteReturningOld(ctx context.Context, pk, sk string) (map[string]types.AttributeValue, error) {
	if err := s.fail(OpDelete, pk, sk); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.partitions[pk]
	if !ok {
		return nil, nil
	}
	old, ok := records[sk]
	if !ok {
		return nil, nil
	}
	delete(records, sk)
	return old, nil
}

// QueryPrefix returns the records of a partition whose sort key starts with
// skPrefix, ordered by sort key.
func (s *Store) QueryPrefix(ctx context.Context, pk, skPrefix string) ([]map[string]types.AttributeValue, error) {
	if err := s.fail(OpQuery, pk, ""); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.partitions[pk]
	sortKeys := make([]string, 0, len(records))
	for sk := range records {
		if strings.HasPrefix(sk, skPrefix) {
			sortKeys = append(sortKeys, sk)
		}
	}
	sort.Strings(sortKeys)

	result := make([]map[string]types.AttributeValue, 0, len(sortKeys))
	for _, sk := range sortKeys {
		result = append(result, clone(records[sk]))
	}
	return result, nil
}

// Increment adds delta to the count attribute of a record, creating the
// record with the key attributes and a zero count first if absent.
func (s *Store) Increment(ctx context.Context, pk, sk string, delta int64) error {
	if err := s.fail(OpIncrement, pk, sk); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.partition(pk)
	record, ok := records[sk]
	if !ok {
		record = map[string]types.AttributeValue{
			keys.PartitionAttr: &types.AttributeValueMemberS{Value: pk},
			keys.SortAttr:      &types.AttributeValueMemberS{Value: sk},
		}
		records[sk] = record
	}

	var current int64
	if v, ok := record[CountAttr]; ok {
		n, ok := v.(*types.AttributeValueMemberN)
		if !ok {
			return fmt.Errorf("memstore: %s is not a number on %s/%s", CountAttr, pk, sk)
		}
		parsed, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("memstore: parse %s on %s/%s: %w", CountAttr, pk, sk, err)
		}
		current = parsed
	}

	record[CountAttr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
	return nil
}

// Get returns a copy of a record, or nil.
func (s *Store) Get(pk, sk string) map[string]types.AttributeValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.partitions[pk][sk]
	if !ok {
		return nil
	}
	return clone(record)
}

// Count returns the counter of a list and whether it exists.
func (s *Store) Count(listID string) (int64, bool) {
	key := keys.Counter(listID)
	record := s.Get(key.Partition, key.Sort)
	if record == nil {
		return 0, false
	}
	n, ok := record[CountAttr].(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	count, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Len returns the number of records in a partition.
func (s *Store) Len(pk string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partitions[pk])
}

// partition returns the records of pk, creating the map if needed. The
// caller holds the write lock.
func (s *Store) partition(pk string) map[string]map[string]types.AttributeValue {
	records, ok := s.partitions[pk]
	if !ok {
		records = make(map[string]map[string]types.AttributeValue)
		s.partitions[pk] = records
	}
	return records
}

// clone copies the top-level map. Attribute values are treated as immutable.
func clone(attrs map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
