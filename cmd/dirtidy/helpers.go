package main

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"
)

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func parseIndices(args []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, &invalidIndexError{value: arg}
		}
		indices = append(indices, n)
	}
	return indices, nil
}

type invalidIndexError struct {
	value string
}

func (e *invalidIndexError) Error() string {
	return "invalid session index " + strconv.Quote(e.value) + " (expected a number from `dirtidy sessions list`)"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
