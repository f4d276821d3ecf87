package dto

import (
	"bytes"
	"time"
)

// Amount is a transaction amount that accepts both JSON numbers and numeric
// strings, keeping the raw text for later parsing.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount(bytes.Trim(b, `"`))
	if *a == "null" {
		*a = ""
	}
	return nil
}

// CreateTransactionRequest carries a new transaction. Username must match
// the route parameter.
type CreateTransactionRequest struct {
	Username string `json:"username"`
	Amount   Amount `json:"amount"`
	Type     string `json:"type"`
}

// TransactionInfo is the payload returned after creating a transaction
type TransactionInfo struct {
	Username string    `json:"username"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
}

// TransactionDetail is a transaction joined with its category color, the
// element type of every listing response
type TransactionDetail struct {
	Username string    `json:"username"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
	Color    string    `json:"color"`
}

// DeleteTransactionRequest identifies a single transaction to delete
type DeleteTransactionRequest struct {
	ID string `json:"_id"`
}

// DeleteTransactionsRequest identifies a batch of transactions to delete
type DeleteTransactionsRequest struct {
	IDs []string `json:"_ids"`
}
