package cart

import (
	"encoding/json"
	"fmt"
)

// Namespace is the key the serialized cart is stored under.
const Namespace = "cart"

func Encode(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

func Decode(data []byte) ([]LineItem, error) {
	if len(data) == 0 {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}
