package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const sequencePrefix = "seq/"

// NextInvoiceNumber allocates the next invoice number for the given day and
// persists the advanced counter. Numbers restart at 1 each day:
// STR8-20240315-01, STR8-20240315-02, STR8-20240316-01, ...
func NextInvoiceNumber(ctx context.Context, kv KV, prefix string, day time.Time) (string, error) {
	const op = "NextInvoiceNumber"

	dayKey := sequencePrefix + day.Format("20060102")

	n := 0
	data, found, err := kv.Get(ctx, dayKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if found {
		if parsed, err := strconv.Atoi(string(data)); err == nil {
			n = parsed
		}
	}
	n++

	if err := kv.Set(ctx, dayKey, []byte(strconv.Itoa(n))); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%s-%s-%02d", prefix, day.Format("20060102"), n), nil
}
