// Package keys maps list and item identifiers to the partition and sort keys
// of the todos table, and back.
//
// Every item of a list and the list's counter share one partition, so listing
// items and bumping the counter are both single-partition operations.
package keys

import "strings"

const (
	// PartitionAttr is the partition key attribute name.
	PartitionAttr = "PK"

	// SortAttr is the sort key attribute name.
	SortAttr = "SK"

	// PartitionPrefix prefixes the list id in the partition key.
	PartitionPrefix = "ITEM#"

	// ItemPrefix prefixes the item id in the sort key. Item scans use it as
	// the begins_with predicate.
	ItemPrefix = "ID#"

	// CounterSort is the reserved sort key of a list's counter record.
	CounterSort = "COUNTER"
)

// Key is a fully qualified primary key.
type Key struct {
	Partition string
	Sort      string
}

// Partition returns the partition key of a list: "ITEM#<listID>".
func Partition(listID string) string {
	return PartitionPrefix + listID
}

// ItemSort returns the sort key of an item: "ID#<itemID>".
func ItemSort(itemID string) string {
	return ItemPrefix + itemID
}

// Item returns the primary key of an item.
func Item(listID, itemID string) Key {
	return Key{Partition: Partition(listID), Sort: ItemSort(itemID)}
}

// Counter returns the primary key of a list's counter record.
func Counter(listID string) Key {
	return Key{Partition: Partition(listID), Sort: CounterSort}
}

// ItemScan returns the scan predicate that selects every item of a list:
// partition equals "ITEM#<listID>" and sort key begins with "ID#".
// The counter record never matches the prefix.
func ItemScan(listID string) (partition, sortPrefix string) {
	return Partition(listID), ItemPrefix
}

// ListID extracts the list id from a partition key.
func ListID(partition string) (string, bool) {
	return strings.CutPrefix(partition, PartitionPrefix)
}

// ItemID extracts the item id from an item sort key. It reports false for the
// counter sort key and for any other foreign sort key.
func ItemID(sort string) (string, bool) {
	return strings.CutPrefix(sort, ItemPrefix)
}
