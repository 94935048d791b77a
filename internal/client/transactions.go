package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/transaction"
)

// CreateTransaction imports a transaction document and returns the sequence
// number the server assigned to it. The sequence number is not the invoice
// or order number.
func (c *Client) CreateTransaction(ctx context.Context, xmlText string) (string, error) {
	c.log.Debug("Importing transaction", logging.F("xml", xmlText))

	body, err := c.post(ctx, c.dataURL+"import/return_seq=true", []byte(xmlText))
	if err != nil {
		return "", err
	}

	seqnum := strings.TrimSpace(string(body))
	c.log.Info("Transaction created", logging.F(logging.FieldSeqNum, seqnum))
	return seqnum, nil
}

// Submit serializes tx and imports it.
func (c *Client) Submit(ctx context.Context, tx *transaction.Transaction) (string, error) {
	doc, err := tx.ToXML()
	if err != nil {
		return "", fmt.Errorf("serializing transaction: %w", err)
	}
	return c.CreateTransaction(ctx, doc)
}

// PostTransaction posts the transaction with the given sequence number and
// returns the server's reply.
func (c *Client) PostTransaction(ctx context.Context, seqnum string) (string, error) {
	c.log.Warn("Posting transaction", logging.F(logging.FieldSeqNum, seqnum))

	body, err := c.post(ctx, c.dataURL+"post/seqnum="+url.QueryEscape(seqnum), []byte{})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
