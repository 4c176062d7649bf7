package todo

import (
	"bytes"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/fargito/todos/internal/keys"
)

// Attribute names of an item record. They are a wire contract shared with
// other tooling reading the table.
const (
	AttrID          = "id"
	AttrListID      = "list_id"
	AttrTitle       = "title"
	AttrDescription = "description"
)

// Item is a todo. Items are immutable once created.
type Item struct {
	ID          string `json:"id"`
	ListID      string `json:"list_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Key returns the item's primary key.
func (i Item) Key() keys.Key {
	return keys.Item(i.ListID, i.ID)
}

// Attributes encodes the item as a store record, key attributes included.
// Empty strings are kept as empty S values.
func (i Item) Attributes() map[string]types.AttributeValue {
	key := i.Key()
	return map[string]types.AttributeValue{
		keys.PartitionAttr: &types.AttributeValueMemberS{Value: key.Partition},
		keys.SortAttr:      &types.AttributeValueMemberS{Value: key.Sort},
		AttrID:             &types.AttributeValueMemberS{Value: i.ID},
		AttrListID:         &types.AttributeValueMemberS{Value: i.ListID},
		AttrTitle:          &types.AttributeValueMemberS{Value: i.Title},
		AttrDescription:    &types.AttributeValueMemberS{Value: i.Description},
	}
}

// DecodeItem maps raw record attributes into an Item. Each of id, list_id,
// title and description must be present and a string; the first failing
// attribute is reported as [ErrMissingAttribute] or
// [ErrInvalidAttributeType] with Attribute set.
func DecodeItem(attrs map[string]types.AttributeValue) (Item, error) {
	var item Item
	var err error

	if item.ID, err = stringAttr(attrs, AttrID); err != nil {
		return Item{}, err
	}
	if item.ListID, err = stringAttr(attrs, AttrListID); err != nil {
		return Item{}, err
	}
	if item.Title, err = stringAttr(attrs, AttrTitle); err != nil {
		return Item{}, err
	}
	if item.Description, err = stringAttr(attrs, AttrDescription); err != nil {
		return Item{}, err
	}

	return item, nil
}

func stringAttr(attrs map[string]types.AttributeValue, name string) (string, error) {
	v, ok := attrs[name]
	if !ok || v == nil {
		return "", &Error{Kind: KindStorage, Message: ErrMissingAttribute.Message, Attribute: name}
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", &Error{Kind: KindStorage, Message: ErrInvalidAttributeType.Message, Attribute: name}
	}
	return s.Value, nil
}

// createBody is the payload of a create request. Pointers distinguish an
// absent field from an empty string.
type createBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// decodeCreateBody parses a create request body. Both fields are required;
// empty strings are accepted. Unknown fields are ignored.
func decodeCreateBody(body []byte) (title, description string, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", "", validationError(ErrInvalidBody)
	}

	var in createBody
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return "", "", &Error{Kind: KindValidation, Message: ErrInvalidBody.Message, Err: err}
	}
	if in.Title == nil || in.Description == nil {
		return "", "", validationError(ErrInvalidBody)
	}

	return *in.Title, *in.Description, nil
}
