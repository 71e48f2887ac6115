// Package arp reads the local neighbor (ARP) table.
package arp

import (
	"context"
	"fmt"

	"glustermon/pkg/models"
)

// Source enumerates the neighbor table. Entries are pushed on the first
// channel, which is closed once the table is exhausted; the error channel
// then yields exactly one value, nil on success.
type Source interface {
	Entries(ctx context.Context) (<-chan models.Neighbor, <-chan error)
}

// EnumerationError is returned when the table could not be read to the end
type EnumerationError struct {
	Source string
	Err    error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to enumerate neighbor table from %s: %v", e.Source, e.Err)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// emit runs read in a goroutine and pushes what it returns onto the channels
func emit(ctx context.Context, name string, read func(ctx context.Context) ([]models.Neighbor, error)) (<-chan models.Neighbor, <-chan error) {
	entries := make(chan models.Neighbor)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)

		neighbors, err := read(ctx)

	push:
		for _, n := range neighbors {
			select {
			case entries <- n:
			case <-ctx.Done():
				err = ctx.Err()
				break push
			}
		}
		close(entries)

		if err != nil {
			errc <- &EnumerationError{Source: name, Err: err}
			return
		}
		errc <- nil
	}()

	return entries, errc
}
