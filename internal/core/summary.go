package core

import "github.com/shopspring/decimal"

// SenderTotal is the deduplicated amount sent by one sender.
type SenderTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// GroupSize is the number of records grouped under one name.
type GroupSize struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
