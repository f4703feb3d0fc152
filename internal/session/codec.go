package session

import (
	"encoding/json"
	"fmt"
)

func encode(e *Entry) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if e.Table == nil {
		return nil, fmt.Errorf("decode session: missing table")
	}
	return &e, nil
}
